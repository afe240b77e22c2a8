// scripts/create_admin.go
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tuanphatnh/thptapp/config"
	"github.com/tuanphatnh/thptapp/database"
	"github.com/tuanphatnh/thptapp/models"
)

// Seeds the admin account and a starter rule catalog.
func main() {
	cfg := config.Load()
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}

	username := "admin"
	password := "admin123"

	var existing models.User
	err = db.Where("username = ?", username).First(&existing).Error
	switch {
	case err == nil:
		fmt.Println("admin user already exists with username:", username)
		os.Exit(0)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		log.Fatalf("failed to query users: %v", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	u := models.User{
		Username:     username,
		PasswordHash: string(hashed),
		FullName:     "Quản trị viên",
		Role:         models.RoleAdmin,
		DisplayTitle: "Admin",
	}
	if err := db.Create(&u).Error; err != nil {
		log.Fatalf("failed to insert admin: %v", err)
	}

	// Starter catalog; admins extend it from the settings page.
	rules := []models.RuleType{
		{Description: "Nói chuyện riêng trong giờ học", PointDelta: -2, Category: models.CategoryInClass},
		{Description: "Không làm bài tập về nhà", PointDelta: -3, Category: models.CategoryInClass},
		{Description: "Mất trật tự, giáo viên nhắc nhở nhiều lần", PointDelta: -5, Category: models.CategoryInClass},
		{Description: "Đi học muộn", PointDelta: -2, Category: models.CategoryOutOfClass},
		{Description: "Không mặc đồng phục đúng quy định", PointDelta: -3, Category: models.CategoryOutOfClass},
		{Description: "Xả rác không đúng nơi quy định", PointDelta: -5, Category: models.CategoryOutOfClass},
		{Description: "Tham gia hoạt động tình nguyện", PointDelta: 5, Category: models.CategoryBonus},
		{Description: "Đạt giải phong trào cấp trường", PointDelta: 10, Category: models.CategoryBonus},
	}
	var count int64
	if err := db.Model(&models.RuleType{}).Count(&count).Error; err != nil {
		log.Fatalf("failed to count rules: %v", err)
	}
	if count == 0 {
		if err := db.Create(&rules).Error; err != nil {
			log.Fatalf("failed to seed rule catalog: %v", err)
		}
		fmt.Printf("seeded %d rules\n", len(rules))
	}

	fmt.Println("admin user created successfully")
	fmt.Println("   username:", username)
	fmt.Println("   password:", password, "(change it after first login)")
}
