package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/PixVoxGames/0pg/internal/domain"
	"github.com/PixVoxGames/0pg/internal/hero"
)

func TestHandleRegisterHero(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := &MockHeroService{}
		svc.On("Register", mock.Anything, int64(42), "Conan").
			Return(domain.NewReply("Welcome, Conan").WithChoices([]string{"Travel"}), nil)

		body := bytes.NewBufferString(`{"chat_id":42,"name":"Conan"}`)
		req := httptest.NewRequest("POST", "/api/v1/hero/register", body)
		w := httptest.NewRecorder()

		HandleRegisterHero(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"text":"Welcome, Conan"`)
		assert.Contains(t, w.Body.String(), `"choices":[["Travel"]]`)
		svc.AssertExpectations(t)
	})

	t.Run("Name Taken", func(t *testing.T) {
		svc := &MockHeroService{}
		svc.On("Register", mock.Anything, int64(42), "Conan").
			Return(domain.Reply{}, domain.ErrNameTaken)

		body := bytes.NewBufferString(`{"chat_id":42,"name":"Conan"}`)
		req := httptest.NewRequest("POST", "/api/v1/hero/register", body)
		w := httptest.NewRecorder()

		HandleRegisterHero(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), ErrMsgNameTakenError)
	})

	t.Run("Missing Name", func(t *testing.T) {
		svc := &MockHeroService{}

		body := bytes.NewBufferString(`{"chat_id":42}`)
		req := httptest.NewRequest("POST", "/api/v1/hero/register", body)
		w := httptest.NewRecorder()

		HandleRegisterHero(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Invalid Body", func(t *testing.T) {
		svc := &MockHeroService{}

		body := bytes.NewBufferString(`{not json`)
		req := httptest.NewRequest("POST", "/api/v1/hero/register", body)
		w := httptest.NewRecorder()

		HandleRegisterHero(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleGetStatus(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := &MockHeroService{}
		svc.On("Status", mock.Anything, int64(42)).Return(&hero.StatusView{
			Hero:     domain.Hero{Name: "Conan", HPValue: 90, HPBase: 100},
			Level:    1,
			Location: domain.Location{ID: 1, Name: "Village"},
		}, nil)

		req := httptest.NewRequest("GET", "/api/v1/hero/status?chat_id=42", nil)
		w := httptest.NewRecorder()

		HandleGetStatus(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"name":"Conan"`)
		assert.Contains(t, w.Body.String(), `"Village"`)
	})

	t.Run("Hero Not Found", func(t *testing.T) {
		svc := &MockHeroService{}
		svc.On("Status", mock.Anything, int64(42)).Return(nil, domain.ErrHeroNotFound)

		req := httptest.NewRequest("GET", "/api/v1/hero/status?chat_id=42", nil)
		w := httptest.NewRecorder()

		HandleGetStatus(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Missing Chat ID", func(t *testing.T) {
		svc := &MockHeroService{}

		req := httptest.NewRequest("GET", "/api/v1/hero/status", nil)
		w := httptest.NewRecorder()

		HandleGetStatus(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Status", mock.Anything, mock.Anything)
	})

	t.Run("Bad Chat ID", func(t *testing.T) {
		svc := &MockHeroService{}

		req := httptest.NewRequest("GET", "/api/v1/hero/status?chat_id=abc", nil)
		w := httptest.NewRecorder()

		HandleGetStatus(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleGetInventory(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := &MockHeroService{}
		svc.On("Inventory", mock.Anything, int64(42)).Return([]domain.OwnedItem{
			{Item: domain.Item{Title: "Rusty Sword"}, Count: 2},
		}, nil)

		req := httptest.NewRequest("GET", "/api/v1/hero/inventory?chat_id=42", nil)
		w := httptest.NewRecorder()

		HandleGetInventory(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"Rusty Sword"`)
		assert.Contains(t, w.Body.String(), `"count":2`)
	})

	t.Run("Empty", func(t *testing.T) {
		svc := &MockHeroService{}
		svc.On("Inventory", mock.Anything, int64(42)).Return([]domain.OwnedItem{}, nil)

		req := httptest.NewRequest("GET", "/api/v1/hero/inventory?chat_id=42", nil)
		w := httptest.NewRecorder()

		HandleGetInventory(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestHandleCancel(t *testing.T) {
	svc := &MockHeroService{}
	svc.On("Cancel", mock.Anything, int64(42)).
		Return(domain.NewReply("You stopped resting"), nil)

	body := bytes.NewBufferString(`{"chat_id":42}`)
	req := httptest.NewRequest("POST", "/api/v1/hero/cancel", body)
	w := httptest.NewRecorder()

	HandleCancel(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "You stopped resting")
	svc.AssertExpectations(t)
}
