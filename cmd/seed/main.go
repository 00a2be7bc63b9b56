package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"staffdir/internal/app/service"
	"staffdir/internal/common"
	"staffdir/internal/common/security"
	"staffdir/internal/domain/model"
	"staffdir/internal/domain/repository"
	"staffdir/internal/platform/config"
	"staffdir/internal/platform/database"
)

var positions = map[string][]string{
	"Engineering": {"Senior Engineer", "Software Engineer", "DevOps Engineer", "QA Engineer", "Tech Lead"},
	"Marketing":   {"Marketing Manager", "Content Writer", "SEO Specialist", "Social Media Manager"},
	"Sales":       {"Sales Manager", "Account Executive", "Business Development", "Sales Representative"},
	"HR":          {"HR Manager", "Recruiter", "HR Coordinator", "Training Specialist"},
	"Finance":     {"Financial Analyst", "Accountant", "Finance Manager", "Payroll Specialist"},
	"Operations":  {"Operations Manager", "Project Manager", "Coordinator", "Analyst"},
	"Design":      {"UI/UX Designer", "Graphic Designer", "Product Designer", "Design Lead"},
	"Product":     {"Product Manager", "Product Owner", "Product Analyst", "Product Designer"},
}

var skillPool = []string{
	"JavaScript", "Python", "React", "Node.js", "GraphQL", "MongoDB", "SQL",
	"Communication", "Leadership", "Project Management", "Data Analysis",
	"Marketing Strategy", "SEO", "Content Creation", "Sales", "Negotiation",
	"UI/UX Design", "Figma", "Adobe Creative Suite", "Agile", "Scrum",
}

var cities = []string{"New York", "San Francisco", "Austin", "Seattle", "Boston", "Chicago", "Denver", "Portland"}
var states = []string{"NY", "CA", "TX", "WA", "MA", "IL", "CO", "OR"}

var statuses = []string{"active", "active", "active", "inactive", "on-leave"}
var relationships = []string{"Spouse", "Parent", "Sibling", "Friend"}

func main() {
	count := flag.Int("count", 50, "number of demo employees to create")
	flag.Parse()

	config.Load()
	security.InitJWT()

	database.Connect()
	defer database.Close()
	if err := database.RunMigrations(config.AppConfig.DatabaseURL); err != nil {
		log.Fatalf("Could not run migrations: %v", err)
	}

	userRepo := repository.NewPgUserRepository(database.DB)
	employeeRepo := repository.NewPgEmployeeRepository(database.DB)
	authService := service.NewAuthService(userRepo)
	employeeService := service.NewEmployeeService(employeeRepo, nil, 0)

	ctx := context.Background()

	seedAccount(ctx, authService, "admin", "admin@company.com", "admin123", model.RoleAdmin)
	seedAccount(ctx, authService, "employee", "employee@company.com", "employee123", model.RoleEmployee)

	created := 0
	for i := 0; i < *count; i++ {
		input := generateEmployee(i)
		if _, err := employeeService.Create(ctx, input); err != nil {
			if errors.Is(err, common.ErrConflict) {
				continue // already seeded
			}
			log.Fatalf("Could not create employee %s: %v", input.Email, err)
		}
		created++
	}
	log.Printf("Seeded %d employees.", created)
}

func seedAccount(ctx context.Context, authService *service.AuthService, username, email, password, role string) {
	_, err := authService.Register(ctx, service.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
		Role:     role,
	})
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			log.Printf("Account %s already exists, skipping.", email)
			return
		}
		log.Fatalf("Could not register %s: %v", email, err)
	}
	log.Printf("Registered %s account: %s", role, email)
}

func generateEmployee(index int) service.CreateEmployeeInput {
	department := model.Departments[rand.Intn(len(model.Departments))]
	position := positions[department][rand.Intn(len(positions[department]))]
	cityIndex := rand.Intn(len(cities))
	status := statuses[rand.Intn(len(statuses))]
	notes := ""

	joinDate := time.Date(
		2020+rand.Intn(5), time.Month(rand.Intn(12)+1), rand.Intn(28)+1,
		0, 0, 0, 0, time.UTC,
	).Format("2006-01-02")

	skills := make([]string, 0, 6)
	seen := map[string]bool{}
	for len(skills) < 2+rand.Intn(5) {
		skill := skillPool[rand.Intn(len(skillPool))]
		if !seen[skill] {
			seen[skill] = true
			skills = append(skills, skill)
		}
	}

	return service.CreateEmployeeInput{
		Name:       fmt.Sprintf("Employee %d", index+1),
		Email:      fmt.Sprintf("employee%d@company.com", index+1),
		Age:        25 + rand.Intn(30),
		Department: department,
		Position:   position,
		Phone:      randomPhone(),
		Salary:     float64(50000 + rand.Intn(100000)),
		JoinDate:   &joinDate,
		Status:     &status,
		Skills:     skills,
		Address: &model.Address{
			Street:  fmt.Sprintf("%d Main Street", rand.Intn(9999)+1),
			City:    cities[cityIndex],
			State:   states[cityIndex],
			ZipCode: fmt.Sprintf("%05d", 10000+rand.Intn(90000)),
			Country: "USA",
		},
		EmergencyContact: &model.EmergencyContact{
			Name:         fmt.Sprintf("Emergency Contact %d", index+1),
			Relationship: relationships[rand.Intn(len(relationships))],
			Phone:        randomPhone(),
		},
		Notes: &notes,
	}
}

func randomPhone() string {
	return fmt.Sprintf("+1-%d-%d-%d", 100+rand.Intn(900), 100+rand.Intn(900), 1000+rand.Intn(9000))
}
