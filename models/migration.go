package models

import (
	"log"

	"github.com/camstore/store_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&User{},
		&Product{}, &Batch{}, &Transaction{},
		&Supplier{}, &PurchaseOrder{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
