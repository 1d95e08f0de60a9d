package services

import (
	"testing"
	"time"

	"github.com/steamlab-platform/lab-service/internal/models"
	"github.com/steamlab-platform/lab-service/internal/repositories"
)

func TestRankStudents(t *testing.T) {
	t.Run("scores combine projects and stars", func(t *testing.T) {
		activity := []repositories.StudentActivity{
			{StudentID: 1, Name: "Asha", Projects: 2, Stars: 3},
		}

		ranked := rankStudents(activity, 5)
		if len(ranked) != 1 {
			t.Fatalf("expected 1 ranked student, got %d", len(ranked))
		}
		if ranked[0].Score != 26 {
			t.Errorf("score = %d, want 26", ranked[0].Score)
		}
	})

	t.Run("orders by score descending", func(t *testing.T) {
		activity := []repositories.StudentActivity{
			{StudentID: 1, Projects: 1, Stars: 0},
			{StudentID: 2, Projects: 3, Stars: 1},
			{StudentID: 3, Projects: 2, Stars: 0},
		}

		ranked := rankStudents(activity, 5)
		wantOrder := []uint{2, 3, 1}
		for i, want := range wantOrder {
			if ranked[i].StudentID != want {
				t.Errorf("position %d: got student %d, want %d", i, ranked[i].StudentID, want)
			}
		}
	})

	t.Run("ties break on stars then student id", func(t *testing.T) {
		// Students 4 and 5 both score 12; 5 has more stars. Students 6
		// and 7 tie completely, so the lower id wins.
		activity := []repositories.StudentActivity{
			{StudentID: 4, Projects: 1, Stars: 1},
			{StudentID: 5, Projects: 0, Stars: 6},
			{StudentID: 7, Projects: 1, Stars: 0},
			{StudentID: 6, Projects: 1, Stars: 0},
		}

		ranked := rankStudents(activity, 5)
		wantOrder := []uint{5, 4, 6, 7}
		for i, want := range wantOrder {
			if ranked[i].StudentID != want {
				t.Errorf("position %d: got student %d, want %d", i, ranked[i].StudentID, want)
			}
		}
	})

	t.Run("stars alone keep a student ranked", func(t *testing.T) {
		// Stars earned in a window on a project submitted before it
		// still score; only students with neither count are dropped.
		activity := []repositories.StudentActivity{
			{StudentID: 8, Projects: 0, Stars: 2},
			{StudentID: 9, Projects: 1, Stars: 0},
		}

		ranked := rankStudents(activity, 5)
		if len(ranked) != 2 {
			t.Fatalf("expected 2 ranked students, got %d", len(ranked))
		}
		if ranked[0].StudentID != 9 || ranked[1].StudentID != 8 {
			t.Errorf("order = %d,%d, want 9,8", ranked[0].StudentID, ranked[1].StudentID)
		}
		if ranked[1].Score != 4 {
			t.Errorf("stars-only score = %d, want 4", ranked[1].Score)
		}
	})

	t.Run("drops students without activity", func(t *testing.T) {
		activity := []repositories.StudentActivity{
			{StudentID: 1, Projects: 0, Stars: 0},
			{StudentID: 2, Projects: 1, Stars: 0},
		}

		ranked := rankStudents(activity, 5)
		if len(ranked) != 1 || ranked[0].StudentID != 2 {
			t.Errorf("expected only student 2, got %+v", ranked)
		}
	})

	t.Run("respects the limit", func(t *testing.T) {
		activity := make([]repositories.StudentActivity, 10)
		for i := range activity {
			activity[i] = repositories.StudentActivity{StudentID: uint(i + 1), Projects: int64(i + 1)}
		}

		ranked := rankStudents(activity, 3)
		if len(ranked) != 3 {
			t.Errorf("expected 3 students, got %d", len(ranked))
		}
	})

	t.Run("zero limit returns everyone", func(t *testing.T) {
		activity := []repositories.StudentActivity{
			{StudentID: 1, Projects: 1},
			{StudentID: 2, Projects: 2},
		}

		ranked := rankStudents(activity, 0)
		if len(ranked) != 2 {
			t.Errorf("expected 2 students, got %d", len(ranked))
		}
	})
}

func TestMergeActivities(t *testing.T) {
	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	users := []*models.User{
		{ID: 1, Name: "Asha", LastName: "Patel", Role: models.RoleStudent, CreatedAt: base.Add(2 * time.Hour)},
		{ID: 2, Name: "Ravi", LastName: "Kumar", Role: models.RoleTeacher, CreatedAt: base},
	}
	projects := []repositories.ProjectStarRow{
		{ProjectID: 10, Title: "Line Follower", StudentName: "Asha Patel", CreatedAt: base.Add(3 * time.Hour)},
		{ProjectID: 11, Title: "Weather Station", StudentName: "Ravi Kumar", CreatedAt: base.Add(time.Hour)},
	}

	t.Run("orders newest first across both feeds", func(t *testing.T) {
		items := mergeActivities(users, projects, 10)

		if len(items) != 4 {
			t.Fatalf("expected 4 items, got %d", len(items))
		}
		wantTypes := []string{"project_submitted", "user_registered", "project_submitted", "user_registered"}
		for i, want := range wantTypes {
			if items[i].Type != want {
				t.Errorf("position %d: type = %q, want %q", i, items[i].Type, want)
			}
		}
		for i := 1; i < len(items); i++ {
			if items[i].Timestamp.After(items[i-1].Timestamp) {
				t.Errorf("items not ordered newest first at position %d", i)
			}
		}
	})

	t.Run("caps the feed at the limit", func(t *testing.T) {
		items := mergeActivities(users, projects, 2)
		if len(items) != 2 {
			t.Errorf("expected 2 items, got %d", len(items))
		}
	})
}
