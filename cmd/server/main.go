// @title KML Editor API
// @version 1.0
// @description API для массового обновления описаний и изображений полигонов KML из таблиц Excel.

// @contact.name API Support
// @contact.email support@example.com

// @host localhost:8080
// @BasePath /api
// @schemes http

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"kmleditor/internal/config"
	"kmleditor/server"
)

func main() {
	log.Println("═══════════════════════════════════════════════════════")
	log.Println("Запуск KML Editor Server...")

	// .env необязателен, переменные окружения имеют приоритет
	if err := godotenv.Load(); err == nil {
		log.Println("Конфигурация дополнена из .env")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}
	log.Printf("✓ Конфигурация загружена. Порт: %s", cfg.Port)
	log.Printf("KML-документ: %s", cfg.KMLPath)
	log.Printf("База истории: %s", cfg.HistoryDBPath)

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Ошибка инициализации сервера: %v", err)
	}

	// Запускаем сервер в отдельной горутине, чтобы дождаться сигнала
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalf("Ошибка запуска сервера: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Остановка сервера...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Ошибка при остановке сервера: %v", err)
	}
	log.Println("Сервер остановлен")
}
