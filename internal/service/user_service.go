package service

import (
	"github.com/Kelvyn2012/Expence-tracker-BE/internal/domain"
	"github.com/Kelvyn2012/Expence-tracker-BE/internal/repository"
)

type UserServiceInterface interface {
	GetByID(id uint) (*domain.User, error)
}

type UserService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) GetByID(id uint) (*domain.User, error) {
	return s.users.FindByID(id)
}
