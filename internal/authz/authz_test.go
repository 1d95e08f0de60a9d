package authz

import (
	"testing"

	"github.com/steamlab-platform/lab-service/internal/models"
)

func labRef(id uint) *uint {
	return &id
}

func TestCanAccessLab(t *testing.T) {
	tests := []struct {
		name  string
		actor Actor
		labID uint
		want  bool
	}{
		{
			name:  "admin always allowed",
			actor: Actor{ID: 1, Role: models.RoleAdmin},
			labID: 7,
			want:  true,
		},
		{
			name:  "sub_admin always allowed",
			actor: Actor{ID: 2, Role: models.RoleSubAdmin},
			labID: 7,
			want:  true,
		},
		{
			name:  "lab_head of same lab allowed",
			actor: Actor{ID: 3, Role: models.RoleLabHead, LabID: labRef(7)},
			labID: 7,
			want:  true,
		},
		{
			name:  "lab_head of other lab denied",
			actor: Actor{ID: 3, Role: models.RoleLabHead, LabID: labRef(8)},
			labID: 7,
			want:  false,
		},
		{
			name:  "teacher of same lab allowed",
			actor: Actor{ID: 4, Role: models.RoleTeacher, LabID: labRef(7)},
			labID: 7,
			want:  true,
		},
		{
			name:  "teacher without lab assignment denied",
			actor: Actor{ID: 4, Role: models.RoleTeacher},
			labID: 7,
			want:  false,
		},
		{
			name:  "student denied",
			actor: Actor{ID: 5, Role: models.RoleStudent},
			labID: 7,
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanAccessLab(tt.actor, tt.labID); got != tt.want {
				t.Errorf("CanAccessLab() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanAccessAnyLab(t *testing.T) {
	tests := []struct {
		name   string
		actor  Actor
		labIDs []uint
		want   bool
	}{
		{
			name:   "admin allowed with empty set",
			actor:  Actor{ID: 1, Role: models.RoleAdmin},
			labIDs: nil,
			want:   true,
		},
		{
			name:   "teacher allowed when own lab in set",
			actor:  Actor{ID: 4, Role: models.RoleTeacher, LabID: labRef(2)},
			labIDs: []uint{1, 2, 3},
			want:   true,
		},
		{
			name:   "teacher denied when own lab not in set",
			actor:  Actor{ID: 4, Role: models.RoleTeacher, LabID: labRef(9)},
			labIDs: []uint{1, 2, 3},
			want:   false,
		},
		{
			name:   "lab_head denied with empty set",
			actor:  Actor{ID: 3, Role: models.RoleLabHead, LabID: labRef(1)},
			labIDs: nil,
			want:   false,
		},
		{
			name:   "student denied even for own labs",
			actor:  Actor{ID: 5, Role: models.RoleStudent},
			labIDs: []uint{1},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanAccessAnyLab(tt.actor, tt.labIDs); got != tt.want {
				t.Errorf("CanAccessAnyLab() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanManageProject(t *testing.T) {
	tests := []struct {
		name     string
		actor    Actor
		ownerID  uint
		deletion bool
		want     bool
	}{
		{
			name:    "owner can update",
			actor:   Actor{ID: 10, Role: models.RoleStudent},
			ownerID: 10,
			want:    true,
		},
		{
			name:    "non-owner cannot update",
			actor:   Actor{ID: 11, Role: models.RoleStudent},
			ownerID: 10,
			want:    false,
		},
		{
			name:    "admin cannot update foreign project",
			actor:   Actor{ID: 1, Role: models.RoleAdmin},
			ownerID: 10,
			want:    false,
		},
		{
			name:     "admin can delete foreign project",
			actor:    Actor{ID: 1, Role: models.RoleAdmin},
			ownerID:  10,
			deletion: true,
			want:     true,
		},
		{
			name:     "teacher cannot delete foreign project",
			actor:    Actor{ID: 4, Role: models.RoleTeacher, LabID: labRef(1)},
			ownerID:  10,
			deletion: true,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanManageProject(tt.actor, tt.ownerID, tt.deletion); got != tt.want {
				t.Errorf("CanManageProject() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanResetPassword(t *testing.T) {
	tests := []struct {
		name   string
		actor  Actor
		target Target
		want   bool
	}{
		{
			name:   "self reset always denied",
			actor:  Actor{ID: 1, Role: models.RoleAdmin},
			target: Target{ID: 1, Role: models.RoleAdmin},
			want:   false,
		},
		{
			name:   "admin resets teacher",
			actor:  Actor{ID: 1, Role: models.RoleAdmin},
			target: Target{ID: 2, Role: models.RoleTeacher},
			want:   true,
		},
		{
			name:   "admin resets student",
			actor:  Actor{ID: 1, Role: models.RoleAdmin},
			target: Target{ID: 2, Role: models.RoleStudent},
			want:   true,
		},
		{
			name:   "admin cannot reset another admin",
			actor:  Actor{ID: 1, Role: models.RoleAdmin},
			target: Target{ID: 2, Role: models.RoleAdmin},
			want:   false,
		},
		{
			name:   "sub_admin resets lab_head",
			actor:  Actor{ID: 1, Role: models.RoleSubAdmin},
			target: Target{ID: 2, Role: models.RoleLabHead},
			want:   true,
		},
		{
			name:   "sub_admin cannot reset admin",
			actor:  Actor{ID: 1, Role: models.RoleSubAdmin},
			target: Target{ID: 2, Role: models.RoleAdmin},
			want:   false,
		},
		{
			name:   "lab_head resets teacher in own lab",
			actor:  Actor{ID: 3, Role: models.RoleLabHead, LabID: labRef(5)},
			target: Target{ID: 4, Role: models.RoleTeacher, LabIDs: []uint{5}},
			want:   true,
		},
		{
			name:   "lab_head cannot reset teacher of other lab",
			actor:  Actor{ID: 3, Role: models.RoleLabHead, LabID: labRef(5)},
			target: Target{ID: 4, Role: models.RoleTeacher, LabIDs: []uint{6}},
			want:   false,
		},
		{
			name:   "lab_head resets student enrolled in own lab",
			actor:  Actor{ID: 3, Role: models.RoleLabHead, LabID: labRef(5)},
			target: Target{ID: 9, Role: models.RoleStudent, LabIDs: []uint{2, 5}},
			want:   true,
		},
		{
			name:   "lab_head cannot reset sub_admin",
			actor:  Actor{ID: 3, Role: models.RoleLabHead, LabID: labRef(5)},
			target: Target{ID: 9, Role: models.RoleSubAdmin, LabIDs: []uint{5}},
			want:   false,
		},
		{
			name:   "lab_head without lab denied",
			actor:  Actor{ID: 3, Role: models.RoleLabHead},
			target: Target{ID: 4, Role: models.RoleTeacher, LabIDs: []uint{5}},
			want:   false,
		},
		{
			name:   "teacher resets student in own lab",
			actor:  Actor{ID: 4, Role: models.RoleTeacher, LabID: labRef(5)},
			target: Target{ID: 9, Role: models.RoleStudent, LabIDs: []uint{5}},
			want:   true,
		},
		{
			name:   "teacher cannot reset student of other lab",
			actor:  Actor{ID: 4, Role: models.RoleTeacher, LabID: labRef(5)},
			target: Target{ID: 9, Role: models.RoleStudent, LabIDs: []uint{6}},
			want:   false,
		},
		{
			name:   "teacher cannot reset another teacher",
			actor:  Actor{ID: 4, Role: models.RoleTeacher, LabID: labRef(5)},
			target: Target{ID: 6, Role: models.RoleTeacher, LabIDs: []uint{5}},
			want:   false,
		},
		{
			name:   "student can never reset",
			actor:  Actor{ID: 9, Role: models.RoleStudent},
			target: Target{ID: 10, Role: models.RoleStudent, LabIDs: []uint{5}},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanResetPassword(tt.actor, tt.target); got != tt.want {
				t.Errorf("CanResetPassword() = %v, want %v", got, tt.want)
			}
		})
	}
}
