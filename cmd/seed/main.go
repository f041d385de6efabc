package main

import (
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"lifelog/internal/config"
	"lifelog/internal/db"
	"lifelog/internal/model"
)

const (
	demoEmail    = "demo@lifelog.local"
	demoPassword = "password123"
	demoName     = "Demo User"
	seedDays     = 45
)

type seedActivity struct {
	title       string
	description string
	duration    int
}

// A rotating set of entries so every insights interval has data.
var seedActivities = []seedActivity{
	{"Reading", "Technical books and articles", 60},
	{"Running", "Morning run around the park", 45},
	{"Meditation", "Breathing exercises", 15},
	{"Guitar practice", "Scales and a new song", 30},
	{"Cooking", "Dinner from scratch", 40},
	{"Reading", "Fiction before bed", 25},
	{"Writing", "Journal and blog drafts", 35},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Activity{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	user, err := ensureDemoUser(gormDB)
	if err != nil {
		log.Fatalf("Failed to create demo user: %v", err)
	}
	log.Printf("Demo user ready: %s", user.Email)

	created, err := seedHistory(gormDB, user)
	if err != nil {
		log.Fatalf("Failed to seed activities: %v", err)
	}
	log.Printf("Seed completed: %d activities created", created)
	log.Printf("Login with %s / %s", demoEmail, demoPassword)
}

func ensureDemoUser(gormDB *gorm.DB) (*model.User, error) {
	var existing model.User
	err := gormDB.Where("email = ?", demoEmail).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(demoPassword), 10)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         demoName,
		Email:        demoEmail,
		PasswordHash: string(hashed),
	}
	if err := gormDB.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// seedHistory spreads a couple of activities per day over the past weeks so
// the dashboard and insights charts have something to show locally.
func seedHistory(gormDB *gorm.DB, user *model.User) (int, error) {
	var count int64
	if err := gormDB.Model(&model.Activity{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		log.Printf("User already has %d activities, skipping history seed", count)
		return 0, nil
	}

	now := time.Now()
	created := 0
	for day := 0; day < seedDays; day++ {
		// Two entries per day, rotating through the sample set.
		for slot := 0; slot < 2; slot++ {
			sample := seedActivities[(day*2+slot)%len(seedActivities)]
			timestamp := now.AddDate(0, 0, -day).Add(-time.Duration(3*slot+2) * time.Hour)

			activity := &model.Activity{
				UserID:      user.ID,
				Title:       sample.title,
				Description: sample.description,
				Duration:    sample.duration,
				Timestamp:   timestamp,
			}
			if err := gormDB.Create(activity).Error; err != nil {
				return created, err
			}
			created++
		}
	}
	return created, nil
}
