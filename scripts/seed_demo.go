// 手动写入演示数据脚本
//
// 在本地空库上跑出一个可立即体验的学员 + 课程 + 全期计划，
// 不经过 LLM（计划内容用确定性文本）。
//
// 用法: go run scripts/seed_demo.go
package main

import (
	"fmt"
	"learnpath_backend/internal/config"
	"learnpath_backend/internal/model"
	"learnpath_backend/pkg/database"
	"log"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法加载配置: %v", err)
	}

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	user := model.User{Name: "Demo Learner", Username: "demo"}
	if err := db.Where(model.User{Username: "demo"}).FirstOrCreate(&user).Error; err != nil {
		log.Fatalf("写入演示学员失败: %v", err)
	}

	course := model.Course{
		CourseName:   "Python Programming",
		DurationDays: 5,
		UserID:       user.ID,
	}
	if err := db.Where(model.Course{UserID: user.ID, CourseName: course.CourseName}).
		FirstOrCreate(&course).Error; err != nil {
		log.Fatalf("写入演示课程失败: %v", err)
	}

	for day := 1; day <= course.DurationDays; day++ {
		plan := model.StudyPlan{
			CourseID:  course.ID,
			DayNumber: day,
			Content:   fmt.Sprintf("Day %d: Study Python Programming fundamentals and core concepts", day),
		}
		if err := db.Where(model.StudyPlan{CourseID: course.ID, DayNumber: day}).
			FirstOrCreate(&plan).Error; err != nil {
			log.Fatalf("写入第 %d 天计划失败: %v", day, err)
		}
	}

	log.Printf("演示数据就绪: 学员 demo / 课程 %q (%d 天)", course.CourseName, course.DurationDays)
}
