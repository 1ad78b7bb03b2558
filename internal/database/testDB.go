package database

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	m "github.com/IliaRaxat/RaxatJob-sub002/internal/model"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/utilities"
	"github.com/IliaRaxat/RaxatJob-sub002/internal/workflow"
)

var testDBInstance *DBinstanceStruct
var teardown func(context.Context, ...testcontainers.TerminateOption) error

// Exported test users & postings
var (
	TestAdminUser       m.User
	TestUserHR1         m.User
	TestUserHR2         m.User
	TestUserUniversity1 m.User
	TestUserCandidate1  m.User
	TestUserCandidate2  m.User

	// Add exported plain password
	TestSeedPassword = "SeedPass123!"

	// TestPublicJob is ACTIVE and APPROVED, owned by TestUserHR1.
	TestPublicJob m.Posting
	// TestDraftInternship is DRAFT and PENDING, owned by TestUserUniversity1.
	TestDraftInternship m.Posting
)

// GetTestDB starts a PostgreSQL test container and returns a teardown function,
// the DB instance, and any error encountered during setup.
func GetTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, *DBinstanceStruct, error) {

	if testDBInstance != nil && teardown != nil {
		return teardown, testDBInstance, nil
	}

	// Database configuration
	var (
		dbName = "database"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:16-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), nat.Port("5432/tcp"))
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	config := &DBConfig{
		DBName:    dbName,
		useConstr: true,
		Constr:    fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbHost, dbPort.Port(), dbUser, dbPwd, dbName),
	}

	db, err := NewDBInstance(config)
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	if err := seedTestData(db); err != nil {
		_ = dbContainer.Terminate(context.Background())
		return nil, nil, err
	}

	testDBInstance = db
	teardown = dbContainer.Terminate

	return dbContainer.Terminate, db, nil
}

// seedTestData inserts one account per role (two HR and two candidates) and two postings.
func seedTestData(db *DBinstanceStruct) error {
	hashedPwd, err := utilities.HashPassword(TestSeedPassword)
	if err != nil {
		return err
	}

	userSpecs := []struct {
		username string
		role     workflow.Role
		target   *m.User
	}{
		{"admin_user", workflow.RoleAdmin, &TestAdminUser},
		{"hr_user_1", workflow.RoleHR, &TestUserHR1},
		{"hr_user_2", workflow.RoleHR, &TestUserHR2},
		{"university_user_1", workflow.RoleUniversity, &TestUserUniversity1},
		{"candidate_user_1", workflow.RoleCandidate, &TestUserCandidate1},
		{"candidate_user_2", workflow.RoleCandidate, &TestUserCandidate2},
	}

	for _, s := range userSpecs {
		u := m.User{
			ID:          uuid.New(),
			Username:    s.username,
			Password:    hashedPwd,
			Role:        s.role,
			DisplayName: s.username,
		}
		if err := db.Create(&u).Error; err != nil {
			return err
		}
		*s.target = u
	}

	now := time.Now()
	exp := now.AddDate(0, 1, 0)

	TestPublicJob = m.Posting{
		Kind:    workflow.KindJob,
		OwnerID: TestUserHR1.ID,
		EditablePostingInfo: m.EditablePostingInfo{
			Title:        "Backend Engineer",
			Description:  "Work on Go services and PostgreSQL.",
			Requirements: "Go; SQL",
			Location:     "Remote",
			Salary:       "negotiable",
			Tags:         pq.StringArray{"go", "backend"},
			Expiring:     &exp,
		},
		Status:           workflow.StatusActive,
		ModerationStatus: workflow.ModerationApproved,
		ModeratedBy:      &TestAdminUser.ID,
		ModeratedAt:      &now,
		SubmittedAt:      &now,
	}
	TestDraftInternship = m.Posting{
		Kind:    workflow.KindInternship,
		OwnerID: TestUserUniversity1.ID,
		EditablePostingInfo: m.EditablePostingInfo{
			Title:       "Research Assistant Intern",
			Description: "Help with data collection for a lab project.",
			Location:    "On campus",
			Tags:        pq.StringArray{"research"},
		},
		Status:           workflow.StatusDraft,
		ModerationStatus: workflow.ModerationPending,
	}

	if err := db.Create(&TestPublicJob).Error; err != nil {
		return err
	}
	return db.Create(&TestDraftInternship).Error
}
