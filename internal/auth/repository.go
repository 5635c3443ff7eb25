package auth

import (
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Repository interface {
	Create(user *User) error
	FindByEmail(email string) (*User, error)
	FindByID(userID uint) (User, error)
	FindRoleByName(name string) (*UserRole, error)
	FindByIDs(ids []uint) ([]User, error)
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) Create(user *User) error {
	return r.db.Create(user).Error
}

func (r *repository) FindByEmail(email string) (*User, error) {
	var u User
	err := r.db.Preload("Role").Where("email = ?", email).First(&u).Error
	return &u, err
}

func (r *repository) FindByID(userID uint) (User, error) {
	var u User
	err := r.db.Preload("Role").First(&u, userID).Error
	return u, err
}

func (r *repository) FindRoleByName(name string) (*UserRole, error) {
	var role UserRole
	err := r.db.Where("role_name = ?", name).First(&role).Error
	return &role, err
}

func (r *repository) FindByIDs(ids []uint) ([]User, error) {
	var users []User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.db.Preload("Role").Where("id IN ?", ids).Find(&users).Error
	return users, err
}

// SeedUserRoles inserts the fixed platform roles if missing.
func SeedUserRoles(db *gorm.DB) error {
	for _, name := range []string{RoleAdmin, RoleHost, RoleMember} {
		var role UserRole
		err := db.Where("role_name = ?", name).First(&role).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&UserRole{RoleName: name}).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// SeedAdminUser creates the bootstrap platform admin when none exists.
func SeedAdminUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&User{}).
		Joins("JOIN user_roles ON user_roles.id = users.role_id").
		Where("user_roles.role_name = ?", RoleAdmin).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	role := UserRole{}
	if err := db.Where("role_name = ?", RoleAdmin).First(&role).Error; err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("ChangeMe123!"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &User{
		FullName:     "Platform Admin",
		Email:        "admin@localhost",
		PasswordHash: string(hash),
		RoleID:       role.ID,
		IsActive:     true,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}
	log.Println("✅ Seeded platform admin (admin@localhost), change the default password")
	return nil
}
