package database

import (
	"gorm.io/gorm"

	chatRepo "github.com/liuwen-dev/vocana/internal/repository/chat"
	userRepo "github.com/liuwen-dev/vocana/internal/repository/user"
)

func MigrateDB(db *gorm.DB) error {
	return db.AutoMigrate(
		&userRepo.UserEntity{},
		&chatRepo.ConversationEntity{},
		&chatRepo.MessageEntity{},
	)
}
