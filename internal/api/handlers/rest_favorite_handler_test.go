package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/sahil-lab/realEstate/internal/api/handlers"
	"github.com/sahil-lab/realEstate/internal/models"
	"github.com/sahil-lab/realEstate/internal/services"
)

func newFavoriteRouter() (*MockFavoriteService, http.Handler) {
	mockSvc := new(MockFavoriteService)
	handler := handlers.NewRestFavoriteHandler(mockSvc, zap.NewNop())
	r := newTestRouter("")
	r.GET("/api/favorites/:userId", handler.ListFavorites)
	r.POST("/api/favorites", handler.AddFavorite)
	r.DELETE("/api/favorites", handler.RemoveFavorite)
	return mockSvc, r
}

func TestRestFavoriteHandler_ListFavorites(t *testing.T) {
	mockSvc, r := newFavoriteRouter()
	mockSvc.On("ListFavorites", mock.Anything, "user-1").
		Return([]models.Favorite{{ID: "f1", UserID: "user-1", PropertyID: "l1"}}, nil)

	w := doJSON(t, r, http.MethodGet, "/api/favorites/user-1", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	favorites := decodeBody(t, w)["favorites"].([]interface{})
	assert.Len(t, favorites, 1)
	assert.Equal(t, "l1", favorites[0].(map[string]interface{})["propertyId"])
}

func TestRestFavoriteHandler_AddFavorite(t *testing.T) {
	mockSvc, r := newFavoriteRouter()
	mockSvc.On("AddFavorite", mock.Anything, "user-1", "l1").
		Return(&models.Favorite{ID: "f1", UserID: "user-1", PropertyID: "l1"}, nil).Once()
	mockSvc.On("AddFavorite", mock.Anything, "user-1", "l1").
		Return(nil, services.ErrAlreadyFavorite).Once()

	body := map[string]string{"userId": "user-1", "propertyId": "l1"}

	w := doJSON(t, r, http.MethodPost, "/api/favorites", body)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "f1", decodeBody(t, w)["favoriteId"])

	w = doJSON(t, r, http.MethodPost, "/api/favorites", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Property already in favorites", decodeBody(t, w)["error"])

	mockSvc.AssertExpectations(t)
}

func TestRestFavoriteHandler_AddFavorite_MissingFields(t *testing.T) {
	mockSvc, r := newFavoriteRouter()
	mockSvc.On("AddFavorite", mock.Anything, "", "l1").
		Return(nil, fmt.Errorf("%w: userId is required", services.ErrInvalidInput))

	w := doJSON(t, r, http.MethodPost, "/api/favorites", map[string]string{"propertyId": "l1"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "userId is required")
}

func TestRestFavoriteHandler_RemoveFavorite(t *testing.T) {
	mockSvc, r := newFavoriteRouter()
	mockSvc.On("RemoveFavorite", mock.Anything, "user-1", "l1").Return(nil)

	w := doJSON(t, r, http.MethodDelete, "/api/favorites", map[string]string{"userId": "user-1", "propertyId": "l1"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["success"])
	mockSvc.AssertExpectations(t)
}
