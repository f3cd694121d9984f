package database

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"simts_backend/internal/config"
	"simts_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig, migrate bool) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.DBName,
			cfg.Charset,
			cfg.ParseTime,
		)
		dialector = mysql.Open(dsn)
	default:
		// 默认 sqlite：整个持久层是一个数据库文件
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, err
			}
		}
		dialector = sqlite.Open(cfg.Path)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
		// 方言错误翻译成 gorm.ErrDuplicatedKey 等哨兵错误，
		// 仓储层的唯一索引兜底依赖它
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if migrate {
		// AutoMigrate 只增列不删列，重复执行是幂等的，
		// 对应旧版本数据库的前向迁移（列已存在时静默跳过）。
		err = db.AutoMigrate(
			&model.Case{},
			&model.Collection{},
			&model.CollectionCase{},
			&model.Student{},
			&model.StudentSession{},
			&model.StudentAnswer{},
		)

		if err != nil {
			return nil, err
		}

		log.Println("Database migration completed")
	}

	// 演示学生账号，仅在不存在时插入
	var count int64
	db.Model(&model.Student{}).Where("username = ?", "estudiante1").Count(&count)
	if count == 0 {
		digest := sha256.Sum256([]byte("pass"))
		demo := &model.Student{
			Username:     "estudiante1",
			PasswordHash: hex.EncodeToString(digest[:]),
			Name:         "Estudiante Demo",
			Status:       model.StatusActive,
		}
		db.Create(demo)
	}

	return db, nil
}
