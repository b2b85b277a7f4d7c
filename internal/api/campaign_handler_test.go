package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nidhi-backend-go/internal/config"
	"nidhi-backend-go/internal/core"
	"nidhi-backend-go/internal/models"
)

// stubCampaignService returns canned campaigns and errors.
type stubCampaignService struct {
	campaign      *models.Campaign
	campaigns     []*models.Campaign
	contribution  *models.Contribution
	contributions []*models.Contribution
	err           error

	lastUserID          string
	lastContributorName string
}

func (s *stubCampaignService) Create(_ context.Context, userID string, _ models.CreateCampaignRequest) (*models.Campaign, error) {
	s.lastUserID = userID
	return s.campaign, s.err
}

func (s *stubCampaignService) Get(_ context.Context, _ int64) (*models.Campaign, error) {
	return s.campaign, s.err
}

func (s *stubCampaignService) List(_ context.Context) ([]*models.Campaign, error) {
	return s.campaigns, s.err
}

func (s *stubCampaignService) ListMine(_ context.Context, userID string) ([]*models.Campaign, error) {
	s.lastUserID = userID
	return s.campaigns, s.err
}

func (s *stubCampaignService) Contribute(_ context.Context, _ int64, contributorName string, _ models.ContributeRequest) (*models.Contribution, error) {
	s.lastContributorName = contributorName
	return s.contribution, s.err
}

func (s *stubCampaignService) ListContributions(_ context.Context, _ int64) ([]*models.Contribution, error) {
	return s.contributions, s.err
}

func (s *stubCampaignService) WatchContributions(ctx context.Context, _ int64) (<-chan []*models.Contribution, error) {
	ch := make(chan []*models.Contribution)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}

func (s *stubCampaignService) Close(_ context.Context, userID string, _ int64) error {
	s.lastUserID = userID
	return s.err
}

// fakeAuth injects the identity the auth middleware would have set.
func fakeAuth(userID, displayName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != "" {
			c.Set("userID", userID)
		}
		if displayName != "" {
			c.Set("userDisplayName", displayName)
		}
		c.Next()
	}
}

func newCampaignRouter(svc core.CampaignService, cfg *config.Config, auth gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	if auth != nil {
		router.Use(auth)
	}
	handler := NewCampaignHandler(svc, cfg)
	router.GET("/api/campaigns", handler.ListCampaigns)
	router.POST("/api/campaigns", handler.CreateCampaign)
	router.GET("/api/campaigns/mine", handler.ListMyCampaigns)
	router.GET("/api/campaigns/:campaignId", handler.GetCampaign)
	router.POST("/api/campaigns/:campaignId/close", handler.CloseCampaign)
	router.POST("/api/campaigns/:campaignId/contributions", handler.Contribute)
	router.GET("/api/campaigns/:campaignId/contributions", handler.ListContributions)
	router.GET("/api/contract", handler.ContractInfo)
	return router
}

func getPath(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func validCreateBody() gin.H {
	return gin.H{
		"title":           "Solar Well",
		"description":     "Water for the village",
		"targetAmount":    "3.5",
		"transactionHash": "0xabc",
		"creator":         "0xdef",
	}
}

func TestCampaignHandler_CreateCampaign(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := &stubCampaignService{campaign: &models.Campaign{CampaignID: 1, Title: "Solar Well"}}
		router := newCampaignRouter(svc, nil, fakeAuth("uid-1", ""))

		rec := postJSON(t, router, "/api/campaigns", validCreateBody())
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "uid-1", svc.lastUserID)
	})

	t.Run("unauthenticated is a 401", func(t *testing.T) {
		svc := &stubCampaignService{}
		router := newCampaignRouter(svc, nil, nil)

		rec := postJSON(t, router, "/api/campaigns", validCreateBody())
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing required fields is a 400", func(t *testing.T) {
		svc := &stubCampaignService{}
		router := newCampaignRouter(svc, nil, fakeAuth("uid-1", ""))

		rec := postJSON(t, router, "/api/campaigns", gin.H{"title": "only a title"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing counter is a 409 naming the orphaned listing", func(t *testing.T) {
		svc := &stubCampaignService{err: core.ErrCounterMissing}
		router := newCampaignRouter(svc, nil, fakeAuth("uid-1", ""))

		rec := postJSON(t, router, "/api/campaigns", validCreateBody())
		assert.Equal(t, http.StatusConflict, rec.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.Details, "on-chain listing")
	})

	t.Run("invalid target is a 400", func(t *testing.T) {
		svc := &stubCampaignService{err: core.ErrInvalidTarget}
		router := newCampaignRouter(svc, nil, fakeAuth("uid-1", ""))

		rec := postJSON(t, router, "/api/campaigns", validCreateBody())
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCampaignHandler_GetCampaign(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := &stubCampaignService{campaign: &models.Campaign{CampaignID: 7, Title: "Solar Well"}}
		rec := getPath(t, newCampaignRouter(svc, nil, nil), "/api/campaigns/7")
		require.Equal(t, http.StatusOK, rec.Code)

		var campaign models.Campaign
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &campaign))
		assert.Equal(t, int64(7), campaign.CampaignID)
	})

	t.Run("not found is a 404", func(t *testing.T) {
		svc := &stubCampaignService{err: core.ErrCampaignNotFound}
		rec := getPath(t, newCampaignRouter(svc, nil, nil), "/api/campaigns/999")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("non-numeric ID is a 400", func(t *testing.T) {
		svc := &stubCampaignService{}
		rec := getPath(t, newCampaignRouter(svc, nil, nil), "/api/campaigns/abc")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("non-positive ID is a 400", func(t *testing.T) {
		svc := &stubCampaignService{}
		rec := getPath(t, newCampaignRouter(svc, nil, nil), "/api/campaigns/0")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCampaignHandler_ListCampaigns(t *testing.T) {
	t.Run("nil list serializes as an empty array", func(t *testing.T) {
		svc := &stubCampaignService{}
		rec := getPath(t, newCampaignRouter(svc, nil, nil), "/api/campaigns")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("mine requires authentication", func(t *testing.T) {
		svc := &stubCampaignService{}
		rec := getPath(t, newCampaignRouter(svc, nil, nil), "/api/campaigns/mine")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestCampaignHandler_Contribute(t *testing.T) {
	t.Run("prefers the authenticated display name", func(t *testing.T) {
		svc := &stubCampaignService{contribution: &models.Contribution{CampaignID: 1, Amount: 2}}
		router := newCampaignRouter(svc, nil, fakeAuth("uid-1", "Asha"))

		rec := postJSON(t, router, "/api/campaigns/1/contributions", gin.H{"amount": 2, "contributorName": "Someone Else"})
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "Asha", svc.lastContributorName)
	})

	t.Run("closed campaign is a 409", func(t *testing.T) {
		svc := &stubCampaignService{err: core.ErrCampaignClosed}
		router := newCampaignRouter(svc, nil, fakeAuth("uid-1", ""))

		rec := postJSON(t, router, "/api/campaigns/1/contributions", gin.H{"amount": 2})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("zero amount fails binding with a 400", func(t *testing.T) {
		svc := &stubCampaignService{}
		router := newCampaignRouter(svc, nil, fakeAuth("uid-1", ""))

		rec := postJSON(t, router, "/api/campaigns/1/contributions", gin.H{"amount": 0})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCampaignHandler_CloseCampaign(t *testing.T) {
	t.Run("closed", func(t *testing.T) {
		svc := &stubCampaignService{}
		router := newCampaignRouter(svc, nil, fakeAuth("uid-1", ""))

		rec := postJSON(t, router, "/api/campaigns/1/close", gin.H{})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "uid-1", svc.lastUserID)
	})

	t.Run("foreign campaign is a 403", func(t *testing.T) {
		svc := &stubCampaignService{err: core.ErrForbiddenAccess}
		router := newCampaignRouter(svc, nil, fakeAuth("uid-2", ""))

		rec := postJSON(t, router, "/api/campaigns/1/close", gin.H{})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("second close is a 409", func(t *testing.T) {
		svc := &stubCampaignService{err: core.ErrCampaignClosed}
		router := newCampaignRouter(svc, nil, fakeAuth("uid-1", ""))

		rec := postJSON(t, router, "/api/campaigns/1/close", gin.H{})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestCampaignHandler_ContractInfo(t *testing.T) {
	t.Run("serves the configured address", func(t *testing.T) {
		cfg := &config.Config{ContractAddress: "0x1234"}
		rec := getPath(t, newCampaignRouter(&stubCampaignService{}, cfg, nil), "/api/contract")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp ContractInfoResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "0x1234", resp.ContractAddress)
	})

	t.Run("unconfigured address is a 404", func(t *testing.T) {
		rec := getPath(t, newCampaignRouter(&stubCampaignService{}, &config.Config{}, nil), "/api/contract")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
