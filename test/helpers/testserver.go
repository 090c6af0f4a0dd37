package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"bloodlink_backend/internal/app"
	"bloodlink_backend/internal/config"
	"bloodlink_backend/internal/database"
	"bloodlink_backend/pkg/contextkeys"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// TestServer держит httptest-сервер и подключение к тестовой БД.
type TestServer struct {
	Server *httptest.Server
	DB     *gorm.DB

	mu sync.Mutex
	tx *gorm.DB
}

// NewTestServer создает и настраивает тестовый сервер и БД.
// Конфиг берет DATABASE_URL (уже с тестовой базой) из os.Getenv().
func NewTestServer(t *testing.T) *TestServer {
	config.LoadConfig()
	cfg := config.GetConfig()
	dsn := cfg.Database.DSN

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("Не удалось подключиться к тестовой БД (%s): %v", dsn, err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Не удалось выполнить миграции для тестовой БД: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Не удалось получить *sql.DB из GORM: %v", err)
	}
	router := app.SetupRouter(cfg, db, sqlDB)

	ts := &TestServer{DB: db}

	// Оборачиваем роутер: если тест открыл транзакцию, она попадает в
	// request context и DBMiddleware подставит ее вместо общего пула.
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.mu.Lock()
		tx := ts.tx
		ts.mu.Unlock()
		if tx != nil {
			r = r.WithContext(context.WithValue(r.Context(), contextkeys.DBContextKey, tx))
		}
		router.ServeHTTP(w, r)
	})

	ts.Server = httptest.NewServer(handler)

	log.Printf("✅ Тестовый сервер запущен, тестовая БД (%s) настроена.", dsn)
	return ts
}

// BeginTransaction открывает транзакцию для теста. Все HTTP-запросы через
// SendRequest будут выполняться внутри нее, пока она не откатится.
func (ts *TestServer) BeginTransaction(t *testing.T) *gorm.DB {
	tx := ts.DB.Begin()
	if tx.Error != nil {
		t.Fatalf("Не удалось открыть транзакцию: %v", tx.Error)
	}

	ts.mu.Lock()
	ts.tx = tx
	ts.mu.Unlock()

	return tx
}

// RollbackTransaction откатывает транзакцию теста и возвращает общий пул.
func (ts *TestServer) RollbackTransaction(t *testing.T, tx *gorm.DB) {
	ts.mu.Lock()
	ts.tx = nil
	ts.mu.Unlock()

	if err := tx.Rollback().Error; err != nil {
		t.Logf("Откат транзакции: %v", err)
	}
}

func (ts *TestServer) Close() {
	ts.Server.Close()
	sqlDB, _ := ts.DB.DB()
	sqlDB.Close()
}

// SendRequest выполняет HTTP-запрос к тестовому серверу и возвращает
// ответ вместе с телом как строкой.
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	url := ts.Server.URL + path

	var reqBody io.Reader = nil
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Ошибка кодирования JSON для запроса: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("Ошибка создания HTTP-запроса: %v", err)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := ts.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("Ошибка отправки HTTP-запроса: %v", err)
	}

	resBodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("Ошибка чтения тела ответа: %v", err)
	}
	defer res.Body.Close()

	return res, string(resBodyBytes)
}
