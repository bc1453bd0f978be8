package service

import (
	"errors"
	"learnpath_backend/internal/model"
	"learnpath_backend/internal/repository"
	"learnpath_backend/internal/util"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserService 学员注册与登录。平台以用户名为唯一标识，不做口令认证
type UserService struct {
	users    *repository.UserRepository
	activity ActivityRecorder
	log      *zap.Logger
}

func NewUserService(users *repository.UserRepository, activity ActivityRecorder, log *zap.Logger) *UserService {
	return &UserService{users: users, activity: activity, log: log}
}

func (s *UserService) Register(name, username string) (*model.User, error) {
	existing, err := s.users.FindByUsername(username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, util.ErrUsernameTaken
	}

	user := &model.User{Name: name, Username: username}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	s.activity.Record(username, "user_registered", nil)
	s.log.Info("新学员注册", zap.String("username", username))
	return user, nil
}

func (s *UserService) Login(username string) (*model.User, error) {
	user, err := s.users.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	s.activity.Record(username, "user_login", nil)
	return user, nil
}

func (s *UserService) Logout(username string) {
	s.activity.Record(username, "user_logout", nil)
}
