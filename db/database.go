package db

import (
	"database/sql"
	"log"
	"os"

	_ "github.com/lib/pq"
)

// InitDB инициализирует соединение с базой данных и создает таблицы
func InitDB(dsn string) *sql.DB {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("Ошибка при открытии базы данных: %v", err)
	}

	if err = db.Ping(); err != nil {
		log.Fatalf("Ошибка при подключении к базе данных: %v", err)
	}

	createTables(db)
	log.Println("База данных успешно инициализирована")
	return db
}

func createTables(db *sql.DB) {
	schema, err := os.ReadFile("db/schema.sql")
	if err != nil {
		log.Fatalf("Не удалось прочитать файл схемы БД: %v", err)
	}

	if _, err = db.Exec(string(schema)); err != nil {
		log.Fatalf("Не удалось создать таблицы: %v", err)
	}
}
