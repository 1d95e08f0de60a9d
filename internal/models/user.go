package models

import (
	"time"
)

type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleSubAdmin UserRole = "sub_admin"
	RoleLabHead  UserRole = "lab_head"
	RoleTeacher  UserRole = "teacher"
	RoleStudent  UserRole = "student"
)

// IsStaff reports whether the role belongs to lab teaching staff.
func (r UserRole) IsStaff() bool {
	return r == RoleLabHead || r == RoleTeacher
}

// IsAdministrative reports whether the role carries school-wide scope.
func (r UserRole) IsAdministrative() bool {
	return r == RoleAdmin || r == RoleSubAdmin
}

type PerformanceStatus string

const (
	PerformanceExcellent        PerformanceStatus = "Excellent"
	PerformanceSatisfactory     PerformanceStatus = "Satisfactory"
	PerformanceNeedsImprovement PerformanceStatus = "Needs Improvement"
)

type User struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Name         string     `json:"name" gorm:"not null;size:100"`
	MiddleName   *string    `json:"middle_name" gorm:"size:100"`
	LastName     string     `json:"last_name" gorm:"not null;size:100"`
	MobileNumber string     `json:"mobile_number" gorm:"uniqueIndex;not null;size:20"`
	Email        *string    `json:"email" gorm:"uniqueIndex;size:255"`
	PasswordHash string     `json:"-" gorm:"not null;size:255"`
	Role         UserRole   `json:"role" gorm:"not null;size:20;index"`
	DateOfBirth  *time.Time `json:"date_of_birth"`
	Gender       *string    `json:"gender" gorm:"size:20"`
	Address      *string    `json:"address" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	TeacherProfile *TeacherProfile `json:"teacher_profile,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	StudentProfile *StudentProfile `json:"student_profile,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Skills         []TeacherSkill  `json:"skills,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// FullName joins first and last name the way reports display people.
func (u *User) FullName() string {
	return u.Name + " " + u.LastName
}

type TeacherProfile struct {
	UserID        uint       `json:"user_id" gorm:"primaryKey"`
	LabID         *uint      `json:"lab_id" gorm:"index"`
	PhotoURL      *string    `json:"photo_url" gorm:"size:500"`
	Bio           *string    `json:"bio" gorm:"type:text"`
	DateOfJoining *time.Time `json:"date_of_joining"`
}

type TeacherSkill struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	UserID    uint   `json:"user_id" gorm:"not null;index"`
	SkillName string `json:"skill_name" gorm:"not null;size:100"`
}

type StudentProfile struct {
	UserID            uint               `json:"user_id" gorm:"primaryKey"`
	JoinDateInLab     *time.Time         `json:"join_date_in_lab"`
	LastYearMarks     *string            `json:"last_year_marks" gorm:"size:50"`
	PerformanceStatus *PerformanceStatus `json:"performance_status" gorm:"size:30;index"`
	MotherName        *string            `json:"mother_name" gorm:"size:100"`
	MotherContact     *string            `json:"mother_contact" gorm:"size:20"`
	FatherName        *string            `json:"father_name" gorm:"size:100"`
	FatherContact     *string            `json:"father_contact" gorm:"size:20"`
}

func (User) TableName() string {
	return "users"
}

func (TeacherProfile) TableName() string {
	return "teacher_profiles"
}

func (TeacherSkill) TableName() string {
	return "teacher_skills"
}

func (StudentProfile) TableName() string {
	return "student_profiles"
}
