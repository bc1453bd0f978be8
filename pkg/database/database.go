package database

import (
	"fmt"
	"learnpath_backend/internal/config"
	"learnpath_backend/internal/model"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.CourseTemplate{},
		&model.StudyPlan{},
		&model.Question{},
		&model.Progress{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// 默认课程模板（为空时写入预置目录）
	var count int64
	db.Model(&model.CourseTemplate{}).Count(&count)
	if count == 0 {
		defaultTemplates := []model.CourseTemplate{
			{Name: "Python Programming", Description: "Learn Python from basics to advanced concepts including data structures, OOP, and web development", SuggestedDuration: 20, DifficultyLevel: "Beginner to Intermediate"},
			{Name: "Pytorch Programming", Description: "Learn pytorch from basics to advanced concepts", SuggestedDuration: 20, DifficultyLevel: "Beginner to Advanced"},
			{Name: "Machine Learning", Description: "Comprehensive ML course covering algorithms, data preprocessing, model training, and deployment", SuggestedDuration: 30, DifficultyLevel: "Intermediate to Advanced"},
			{Name: "Web Development", Description: "Full-stack web development with HTML, CSS, JavaScript, React, and backend technologies", SuggestedDuration: 25, DifficultyLevel: "Beginner to Intermediate"},
			{Name: "Data Science", Description: "Data analysis, visualization, statistics, and machine learning for data-driven insights", SuggestedDuration: 30, DifficultyLevel: "Intermediate"},
			{Name: "JavaScript Fundamentals", Description: "Master JavaScript basics, ES6+, DOM manipulation, and asynchronous programming", SuggestedDuration: 15, DifficultyLevel: "Beginner"},
			{Name: "Database Design", Description: "SQL, database design principles, normalization, and query optimization", SuggestedDuration: 20, DifficultyLevel: "Beginner to Intermediate"},
		}
		for _, t := range defaultTemplates {
			db.Create(&t)
		}
	}

	return db, nil
}
