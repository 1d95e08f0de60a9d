// Package authz is the single place where role and scope decisions are made.
// All functions are pure: callers resolve the actor and the resource scope
// from the database and pass plain values in.
package authz

import (
	"github.com/steamlab-platform/lab-service/internal/models"
)

// Actor is the authenticated user reduced to what authorization needs.
// LabID is the lab assignment from the teacher profile and is nil for
// admins, students and unassigned staff.
type Actor struct {
	ID    uint
	Role  models.UserRole
	LabID *uint
}

// Target describes the user a privileged operation is aimed at. LabIDs is
// the set of labs the target belongs to: the profile lab for staff, the
// labs of all enrollments for students.
type Target struct {
	ID     uint
	Role   models.UserRole
	LabIDs []uint
}

// CanAccessLab decides whether the actor may manage resources of the given
// lab. Admins and sub-admins always may; lab heads and teachers only within
// the lab their profile assigns them to; everyone else is denied.
func CanAccessLab(actor Actor, labID uint) bool {
	switch actor.Role {
	case models.RoleAdmin, models.RoleSubAdmin:
		return true
	case models.RoleLabHead, models.RoleTeacher:
		return actor.LabID != nil && *actor.LabID == labID
	default:
		return false
	}
}

// CanAccessAnyLab decides lab access against a set of labs. Used for
// student-scoped resources, where the student belongs to every lab of their
// enrollments and staff access is granted if any of those labs is theirs.
func CanAccessAnyLab(actor Actor, labIDs []uint) bool {
	if actor.Role.IsAdministrative() {
		return true
	}
	for _, labID := range labIDs {
		if CanAccessLab(actor, labID) {
			return true
		}
	}
	return false
}

// CanManageProject decides update/delete on a project. Owners manage their
// own projects; deletion additionally falls to admins and sub-admins.
func CanManageProject(actor Actor, ownerID uint, deletion bool) bool {
	if actor.ID == ownerID {
		return true
	}
	if deletion && actor.Role.IsAdministrative() {
		return true
	}
	return false
}

// CanResetPassword implements the password reset decision table:
//
//	admin, sub_admin -> any user except admins
//	lab_head         -> teachers of their own lab, students enrolled in it
//	teacher          -> students enrolled in their own lab
//
// Resetting one's own password goes through the change-password flow and is
// always denied here, as is every pairing the table does not list.
func CanResetPassword(actor Actor, target Target) bool {
	if actor.ID == target.ID {
		return false
	}

	switch actor.Role {
	case models.RoleAdmin, models.RoleSubAdmin:
		return target.Role != models.RoleAdmin
	case models.RoleLabHead:
		if actor.LabID == nil {
			return false
		}
		if target.Role != models.RoleTeacher && target.Role != models.RoleStudent {
			return false
		}
		return containsLab(target.LabIDs, *actor.LabID)
	case models.RoleTeacher:
		if actor.LabID == nil || target.Role != models.RoleStudent {
			return false
		}
		return containsLab(target.LabIDs, *actor.LabID)
	default:
		return false
	}
}

func containsLab(labIDs []uint, labID uint) bool {
	for _, id := range labIDs {
		if id == labID {
			return true
		}
	}
	return false
}
