package main

import (
	"github.com/carestel-arch/telegram-earnings-bot-sub000/cmd/db"
	"github.com/carestel-arch/telegram-earnings-bot-sub000/internal/models"
	"github.com/carestel-arch/telegram-earnings-bot-sub000/pkg/logger"
)

func main() {
	db.Connect()

	// dropTables()
	createTables()

	logger.Info("Migrated.")
}

func dropTables() {
	err := db.DB.Migrator().DropTable(
		&models.Account{},
		&models.Investment{},
		&models.Withdrawal{},
		&models.Referral{},
		&models.Transaction{},
	)
	if err != nil {
		logger.Fatal("%v", err)
	}
}

func createTables() {
	err := db.DB.AutoMigrate(
		&models.Account{},
		&models.Investment{},
		&models.Withdrawal{},
		&models.Referral{},
		&models.Transaction{},
	)
	if err != nil {
		logger.Fatal("%v", err)
	}
}
