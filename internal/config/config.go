package config // package config loads application configuration from environment variables

import (
    "log" // log is used to warn about insecure defaults
    "os"  // os provides access to environment variables
)

// devSecret signs tokens when JWT_SECRET is unset.  Acceptable only for
// the in-memory demo mode; production deployments must set their own.
const devSecret = "sav-tracker-dev-secret-change-in-production"

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations
// and costs.  Database settings are optional: when DBHost is empty the
// process runs against the in-memory store (demo mode, state lost on
// restart).
type Config struct {
    Env           string // application environment (e.g. "dev", "prod")
    Port          string // HTTP port to listen on
    DBUser        string // database username
    DBPass        string // database password (optional)
    DBHost        string // database host; empty selects the memory store
    DBPort        string // database port number
    DBName        string // database name
    JWTSecret     string // secret used to sign JWTs
    TokenTTLHours int    // session credential time-to-live in hours
    BcryptCost    int    // bcrypt cost for password hashing

    AdminEmail    string // seeded administrator email (optional)
    AdminPassword string // seeded administrator password (optional)
    AdminName     string // seeded administrator display name

    UploadDir     string // directory for disk-stored photo uploads
    AWSRegion     string // S3 upload backend; empty selects disk storage
    AWSAccessKey  string
    AWSSecretKey  string
    AWSS3Bucket   string
}

// Load reads configuration values from environment variables and
// returns a Config.  Every value has a default so the binary starts
// with no environment at all (memory store, dev secret); the insecure
// token secret default is logged loudly.
func Load() Config {
    secret := getenv("JWT_SECRET", "")
    if secret == "" {
        log.Println("WARNING: JWT_SECRET not set, using development default")
        secret = devSecret
    }
    return Config{
        Env:           getenv("APP_ENV", "dev"),
        Port:          getenv("APP_PORT", "8080"),
        DBUser:        getenv("DB_USER", "root"),
        DBPass:        os.Getenv("DB_PASS"),
        DBHost:        os.Getenv("DB_HOST"),
        DBPort:        getenv("DB_PORT", "3306"),
        DBName:        getenv("DB_NAME", "sav_tracker"),
        JWTSecret:     secret,
        TokenTTLHours: envInt("TOKEN_TTL_HOURS", 168), // 7 days
        BcryptCost:    envInt("BCRYPT_COST", 10),

        AdminEmail:    os.Getenv("ADMIN_EMAIL"),
        AdminPassword: os.Getenv("ADMIN_PASSWORD"),
        AdminName:     getenv("ADMIN_NAME", "Administrator"),

        UploadDir:    getenv("UPLOAD_DIR", "uploads"),
        AWSRegion:    os.Getenv("AWS_REGION"),
        AWSAccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
        AWSSecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
        AWSS3Bucket:  os.Getenv("AWS_S3_BUCKET"),
    }
}

// UseMemoryStore reports whether the process should run on the
// in-memory store instead of MySQL.
func (c Config) UseMemoryStore() bool { return c.DBHost == "" }

// UseS3Uploads reports whether photo uploads go to S3 rather than the
// local disk.
func (c Config) UseS3Uploads() bool {
    return c.AWSRegion != "" && c.AWSS3Bucket != ""
}
