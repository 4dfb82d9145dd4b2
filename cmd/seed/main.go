package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/yungbote/lnd-backend/internal/app"
	types "github.com/yungbote/lnd-backend/internal/domain"
	"github.com/yungbote/lnd-backend/internal/domain/learning"
	"github.com/yungbote/lnd-backend/internal/domain/user"
	"github.com/yungbote/lnd-backend/internal/pkg/dbctx"
	"github.com/yungbote/lnd-backend/internal/services"
)

const adminEmail = "admin@company.com"

type seedUser struct {
	email string
	name  string
	role  user.Role
}

var managers = []seedUser{
	{"john.smith@company.com", "John Smith", user.RoleManager},
	{"sarah.johnson@company.com", "Sarah Johnson", user.RoleManager},
}

var employees = []seedUser{
	{"alice.dev@company.com", "Alice Developer", user.RoleEmployee},
	{"bob.engineer@company.com", "Bob Engineer", user.RoleEmployee},
	{"eve.product@company.com", "Eve Product", user.RoleEmployee},
	{"frank.pm@company.com", "Frank PM", user.RoleEmployee},
}

type seedTraining struct {
	in       services.CreateTrainingInput
	sessions int
	modules  []string
}

var trainings = []seedTraining{
	{
		in: services.CreateTrainingInput{
			Title:              "Secure Coding Fundamentals",
			Description:        "OWASP top 10 and secure review habits.",
			Category:           "engineering",
			DurationHours:      16,
			MaxParticipants:    25,
			IsMandatory:        true,
			LearningObjectives: []string{"Recognise injection flaws", "Review code for auth bugs"},
		},
		sessions: 2,
		modules:  []string{"Threat modelling", "Injection", "Authentication"},
	},
	{
		in: services.CreateTrainingInput{
			Title:           "Effective Product Discovery",
			Description:     "Interviewing, framing and validating problems.",
			Category:        "product",
			DurationHours:   8,
			MaxParticipants: 15,
			Prerequisites:   []string{"None"},
		},
		sessions: 1,
		modules:  []string{"Customer interviews", "Opportunity mapping"},
	},
}

func main() {
	var password string
	flag.StringVar(&password, "password", "Password123!", "password for every seeded user")
	flag.Parse()

	_ = godotenv.Load()
	ctx := context.Background()

	a, err := app.New(ctx)
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := seed(ctx, a, password); err != nil {
		a.Log.Error("Seed failed", "error", err)
		os.Exit(1)
	}
	a.Log.Info("Seed complete")
}

func seed(ctx context.Context, a *app.App, password string) error {
	dbc := dbctx.New(ctx)
	exists, err := a.Repos.User.EmailExists(dbc, adminEmail)
	if err != nil {
		return err
	}
	if exists {
		a.Log.Info("Seed data already present, skipping", "email", adminEmail)
		return nil
	}

	hash, err := services.HashPassword(password)
	if err != nil {
		return err
	}
	admin := &types.User{Email: adminEmail, FullName: "Super Admin", Role: user.RoleSuperAdmin, Password: hash, IsActive: true}
	var users []*types.User
	users = append(users, admin)
	var managerRows []*types.User
	for _, m := range managers {
		u := &types.User{Email: m.email, FullName: m.name, Role: m.role, Password: hash, IsActive: true}
		managerRows = append(managerRows, u)
		users = append(users, u)
	}
	if _, err := a.Repos.User.Create(dbc, users); err != nil {
		return fmt.Errorf("create admin and managers: %w", err)
	}

	var staff []*types.User
	for i, e := range employees {
		managerID := managerRows[i%len(managerRows)].ID
		staff = append(staff, &types.User{
			Email:     e.email,
			FullName:  e.name,
			Role:      e.role,
			Password:  hash,
			IsActive:  true,
			ManagerID: &managerID,
		})
	}
	if _, err := a.Repos.User.Create(dbc, staff); err != nil {
		return fmt.Errorf("create employees: %w", err)
	}

	start := time.Now().UTC().AddDate(0, 0, 1)
	for _, st := range trainings {
		tr, err := seedOneTraining(ctx, a, admin.ID, st, start)
		if err != nil {
			return err
		}
		for i, m := range managerRows {
			if _, err := a.Services.Enrollment.Assign(ctx, services.AssignInput{
				ManagerID:  m.ID,
				UserID:     staff[i].ID,
				TrainingID: tr.ID,
			}); err != nil {
				return fmt.Errorf("assign %s: %w", staff[i].Email, err)
			}
		}
	}
	return nil
}

func seedOneTraining(ctx context.Context, a *app.App, adminID uuid.UUID, st seedTraining, start time.Time) (*types.Training, error) {
	in := st.in
	in.CreatedByID = &adminID
	tr, err := a.Services.Training.Create(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create training %q: %w", in.Title, err)
	}
	if _, err := a.Services.Training.Submit(ctx, tr.ID); err != nil {
		return nil, err
	}
	if tr, err = a.Services.Training.Approve(ctx, tr.ID, adminID); err != nil {
		return nil, err
	}

	for i := 0; i < st.sessions; i++ {
		if _, err := a.Services.Training.CreateSession(ctx, services.CreateSessionInput{
			TrainingID:      tr.ID,
			SessionDate:     start.AddDate(0, 0, i*7),
			StartTime:       "09:00",
			EndTime:         "17:00",
			Location:        fmt.Sprintf("Room %c", 'A'+i),
			InstructorName:  "External Trainer",
			MaxParticipants: in.MaxParticipants,
		}); err != nil {
			return nil, fmt.Errorf("create session: %w", err)
		}
	}

	for mi, title := range st.modules {
		mod, err := a.Services.Module.AddModule(ctx, tr.ID, title, mi+1)
		if err != nil {
			return nil, fmt.Errorf("add module %q: %w", title, err)
		}
		lessons := []struct {
			title string
			typ   learning.LessonType
		}{
			{title + ": overview", learning.LessonTypeVideo},
			{title + ": reading", learning.LessonTypeText},
			{title + ": check", learning.LessonTypeQuiz},
		}
		for li, l := range lessons {
			if _, err := a.Services.Module.AddLesson(ctx, services.AddLessonInput{
				ModuleID:        mod.ID,
				Title:           l.title,
				Type:            l.typ,
				DurationMinutes: 20,
				Order:           li + 1,
			}); err != nil {
				return nil, fmt.Errorf("add lesson %q: %w", l.title, err)
			}
		}
	}
	return tr, nil
}
