package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming

    "github.com/golang-jwt/jwt/v5" // JWT library for parsing and validating tokens
    "github.com/labstack/echo/v4"  // Echo framework used for defining middleware and handlers

    "github.com/savpro/sav-tracker/internal/policy"
)

// JWTAuth returns an Echo middleware that validates a Bearer access
// token and injects the caller identity into the request context.  The
// provided secret must match the one used when issuing tokens.  This
// middleware wraps every protected route; handlers read the identity
// back via Caller(c).
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            // A valid header starts with "Bearer " followed by the JWT.
            auth := c.Request().Header.Get("Authorization")
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            raw := strings.TrimPrefix(auth, "Bearer ")

            // Parse with the HS256 secret; reject any other signing
            // method so a token cannot downgrade the algorithm.
            tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
                if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
                    return nil, echo.ErrUnauthorized
                }
                return []byte(secret), nil
            })
            if err != nil || !tok.Valid {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            claims, ok := tok.Claims.(jwt.MapClaims)
            if !ok {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
            }

            sub, _ := claims["sub"].(string)
            role, _ := claims["role"].(string)
            if sub == "" || role == "" {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
            }
            c.Set("user_id", sub)
            c.Set("role", role)
            if email, ok := claims["email"].(string); ok {
                c.Set("email", email)
            }
            if name, ok := claims["name"].(string); ok {
                c.Set("name", name)
            }
            return next(c)
        }
    }
}

// Caller returns the authenticated actor injected by JWTAuth.  Both
// fields are empty when the request was not authenticated.
func Caller(c echo.Context) policy.Actor {
    id, _ := c.Get("user_id").(string)
    role, _ := c.Get("role").(string)
    return policy.Actor{ID: id, Role: role}
}
