package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/savpro/sav-tracker/internal/model"
)

var (
	commercial = Actor{ID: "com1", Role: model.RoleCommercial}
	otherCom   = Actor{ID: "com2", Role: model.RoleCommercial}
	technician = Actor{ID: "tech1", Role: model.RoleTechnician}
	admin      = Actor{ID: "adm1", Role: model.RoleAdmin}
)

func TestClientRules(t *testing.T) {
	owned := model.Client{ID: "c1", CommercialID: commercial.ID}

	tests := []struct {
		name  string
		actor Actor
		view  bool
		edit  bool
	}{
		{"owner views and edits", commercial, true, true},
		{"other commercial sees nothing", otherCom, false, false},
		{"technician has no client access", technician, false, false},
		{"admin views read-only", admin, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.view, CanViewClient(tt.actor, owned))
			assert.Equal(t, tt.edit, CanMutateClient(tt.actor, owned))
		})
	}

	assert.True(t, CanCreateClient(commercial))
	assert.False(t, CanCreateClient(technician))
	assert.False(t, CanCreateClient(admin))
	assert.True(t, CanListAllClients(admin))
	assert.False(t, CanListAllClients(commercial))
}

func TestDeclarationVisibility(t *testing.T) {
	d := model.Declaration{ID: "d1", CommercialID: commercial.ID}

	assert.True(t, CanViewDeclaration(commercial, d))
	assert.False(t, CanViewDeclaration(otherCom, d))
	assert.True(t, CanViewDeclaration(technician, d))
	assert.True(t, CanViewDeclaration(admin, d))

	assert.False(t, CanListAllDeclarations(commercial))
	assert.True(t, CanListAllDeclarations(technician))
	assert.True(t, CanListAllDeclarations(admin))
}

func TestDeclarationMutation(t *testing.T) {
	d := model.Declaration{ID: "d1", CommercialID: commercial.ID}

	assert.True(t, CanEditDeclaration(commercial, d))
	assert.False(t, CanEditDeclaration(otherCom, d))
	assert.False(t, CanEditDeclaration(technician, d))
	assert.False(t, CanEditDeclaration(admin, d))

	assert.True(t, CanDeleteDeclaration(commercial, d))
	assert.False(t, CanDeleteDeclaration(otherCom, d))
	assert.False(t, CanDeleteDeclaration(admin, d))

	assert.True(t, CanTakeDeclaration(technician))
	assert.False(t, CanTakeDeclaration(commercial))
	assert.False(t, CanTakeDeclaration(admin))
}

func TestCanWorkDeclaration(t *testing.T) {
	tech := technician.ID
	assigned := model.Declaration{Status: model.StatusInProgress, TechnicianID: &tech}
	other := "tech2"
	foreign := model.Declaration{Status: model.StatusInProgress, TechnicianID: &other}
	unassigned := model.Declaration{Status: model.StatusNew}

	assert.True(t, CanWorkDeclaration(technician, assigned))
	assert.False(t, CanWorkDeclaration(technician, foreign))
	assert.False(t, CanWorkDeclaration(technician, unassigned))
	assert.False(t, CanWorkDeclaration(admin, assigned))
	assert.False(t, CanWorkDeclaration(commercial, assigned))
}

func TestUserAdministration(t *testing.T) {
	assert.True(t, CanAdministerUsers(admin))
	assert.False(t, CanAdministerUsers(commercial))
	assert.False(t, CanAdministerUsers(technician))

	pending := model.User{ID: "u1", Role: model.RoleCommercial, Status: model.UserPending}
	rootAdmin := model.User{ID: "adm2", Role: model.RoleAdmin, Status: model.UserActive}

	assert.True(t, CanChangeUser(admin, pending))
	assert.False(t, CanChangeUser(admin, rootAdmin), "admin accounts are immutable")
	assert.False(t, CanChangeUser(commercial, pending))
}
