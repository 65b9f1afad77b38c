//go:build api

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseURL = "http://localhost:8080"

// TestAPI_FullFlow walks the whole marketplace end to end against a running
// server: register, list a property, request a booking, hit a conflict,
// approve, and check the dashboard.
func TestAPI_FullFlow(t *testing.T) {
	waitForServer(t)

	var landlordToken, tenantToken, otherTenantToken string
	var propertyID, bookingID float64

	t.Run("Step1_RegisterLandlord", func(t *testing.T) {
		resp := post(t, baseURL+"/api/v1/auth/register", "", map[string]interface{}{
			"name":     "Lena Landlord",
			"email":    fmt.Sprintf("lena-%d@example.com", time.Now().UnixNano()),
			"password": "supersecret",
			"role":     "landlord",
		})
		require.Equal(t, 201, resp.StatusCode)

		var auth map[string]interface{}
		decodeJSON(t, resp, &auth)
		landlordToken = auth["token"].(string)
		require.NotEmpty(t, landlordToken)
		assert.Equal(t, "Bearer", auth["token_type"])
	})

	t.Run("Step2_RegisterTenants", func(t *testing.T) {
		for i, target := range []*string{&tenantToken, &otherTenantToken} {
			resp := post(t, baseURL+"/api/v1/auth/register", "", map[string]interface{}{
				"name":     fmt.Sprintf("Tenant %d", i+1),
				"email":    fmt.Sprintf("tenant-%d-%d@example.com", i, time.Now().UnixNano()),
				"password": "supersecret",
			})
			require.Equal(t, 201, resp.StatusCode)

			var auth map[string]interface{}
			decodeJSON(t, resp, &auth)
			*target = auth["token"].(string)
		}
	})

	t.Run("Step3_CreateProperty", func(t *testing.T) {
		resp := post(t, baseURL+"/api/v1/properties", landlordToken, map[string]interface{}{
			"title":       "Sunny riverside flat",
			"description": "Two bedrooms, close to the park",
			"type":        "apartment",
			"price":       1500,
			"location": map[string]string{
				"address":  "1 River Rd",
				"city":     "Springfield",
				"state":    "IL",
				"zip_code": "62704",
			},
			"features": map[string]interface{}{
				"bedrooms":  2,
				"bathrooms": 1,
				"area":      80,
			},
		})
		require.Equal(t, 201, resp.StatusCode)

		var property map[string]interface{}
		decodeJSON(t, resp, &property)
		propertyID = property["id"].(float64)
		assert.Equal(t, "available", property["status"])
	})

	t.Run("Step4_TenantCannotCreateProperty", func(t *testing.T) {
		resp := post(t, baseURL+"/api/v1/properties", tenantToken, map[string]interface{}{
			"title":       "Should fail",
			"description": "Tenants cannot list",
			"type":        "house",
			"price":       1,
			"location": map[string]string{
				"address": "x", "city": "x", "state": "x", "zip_code": "x",
			},
		})
		assert.Equal(t, 403, resp.StatusCode)
	})

	t.Run("Step5_CreateBooking", func(t *testing.T) {
		resp := post(t, baseURL+"/api/v1/bookings", tenantToken, map[string]interface{}{
			"property_id": propertyID,
			"start_date":  "2026-10-01",
			"end_date":    "2027-01-01",
			"message":     "Relocating for work",
		})
		require.Equal(t, 201, resp.StatusCode)

		var booking map[string]interface{}
		decodeJSON(t, resp, &booking)
		bookingID = booking["id"].(float64)
		assert.Equal(t, "pending", booking["status"])
		assert.Equal(t, float64(4500), booking["total_amount"], "three months at 1500")
	})

	t.Run("Step6_OverlapConflict", func(t *testing.T) {
		resp := post(t, baseURL+"/api/v1/bookings", otherTenantToken, map[string]interface{}{
			"property_id": propertyID,
			"start_date":  "2026-11-01",
			"end_date":    "2026-12-01",
		})
		assert.Equal(t, 409, resp.StatusCode, "overlapping dates should conflict")
	})

	t.Run("Step7_OwnerCannotBookOwnProperty", func(t *testing.T) {
		resp := post(t, baseURL+"/api/v1/bookings", landlordToken, map[string]interface{}{
			"property_id": propertyID,
			"start_date":  "2027-02-01",
			"end_date":    "2027-03-01",
		})
		assert.Equal(t, 403, resp.StatusCode)
	})

	t.Run("Step8_TenantCannotApprove", func(t *testing.T) {
		resp := put(t, fmt.Sprintf("%s/api/v1/bookings/%.0f", baseURL, bookingID), tenantToken,
			map[string]string{"action": "approve"})
		assert.Equal(t, 403, resp.StatusCode)
	})

	t.Run("Step9_LandlordApproves", func(t *testing.T) {
		resp := put(t, fmt.Sprintf("%s/api/v1/bookings/%.0f", baseURL, bookingID), landlordToken,
			map[string]string{"action": "approve"})
		require.Equal(t, 200, resp.StatusCode)

		var booking map[string]interface{}
		decodeJSON(t, resp, &booking)
		assert.Equal(t, "approved", booking["status"])
	})

	t.Run("Step10_ApproveTwiceFails", func(t *testing.T) {
		resp := put(t, fmt.Sprintf("%s/api/v1/bookings/%.0f", baseURL, bookingID), landlordToken,
			map[string]string{"action": "approve"})
		assert.Equal(t, 400, resp.StatusCode, "approve is only valid from pending")
	})

	t.Run("Step11_StrangerCannotViewBooking", func(t *testing.T) {
		resp := get(t, fmt.Sprintf("%s/api/v1/bookings/%.0f", baseURL, bookingID), otherTenantToken)
		assert.Equal(t, 403, resp.StatusCode)
	})

	t.Run("Step12_ListBookingsAsLandlord", func(t *testing.T) {
		resp := get(t, baseURL+"/api/v1/bookings?type=landlord", landlordToken)
		require.Equal(t, 200, resp.StatusCode)

		var bookings []map[string]interface{}
		decodeJSON(t, resp, &bookings)
		require.NotEmpty(t, bookings)
		assert.Equal(t, "approved", bookings[0]["status"])
	})

	t.Run("Step13_FavoriteAndStats", func(t *testing.T) {
		resp := post(t, baseURL+"/api/v1/favorites", tenantToken, map[string]interface{}{
			"property_id": propertyID,
		})
		require.Equal(t, 200, resp.StatusCode)

		var fav map[string]interface{}
		decodeJSON(t, resp, &fav)
		assert.Equal(t, true, fav["is_favorite"])

		resp = get(t, baseURL+"/api/v1/stats", landlordToken)
		require.Equal(t, 200, resp.StatusCode)

		var stats map[string]interface{}
		decodeJSON(t, resp, &stats)
		assert.Equal(t, float64(4500), stats["monthly_revenue"], "approved booking counts as revenue")
	})

	t.Run("Step14_PropertyMessages", func(t *testing.T) {
		url := fmt.Sprintf("%s/api/v1/properties/%.0f/messages", baseURL, propertyID)

		resp := post(t, url, tenantToken, map[string]string{
			"message": "Is the flat furnished?",
		})
		require.Equal(t, 201, resp.StatusCode)

		resp = get(t, url, landlordToken)
		require.Equal(t, 200, resp.StatusCode)

		var messages []map[string]interface{}
		decodeJSON(t, resp, &messages)
		require.NotEmpty(t, messages)
		assert.Equal(t, "Is the flat furnished?", messages[0]["message"])
	})

	t.Run("Step15_UnauthenticatedIs401", func(t *testing.T) {
		resp := get(t, baseURL+"/api/v1/bookings", "")
		assert.Equal(t, 401, resp.StatusCode)
	})
}

// Helper functions

func waitForServer(t *testing.T) {
	maxRetries := 30
	for i := 0; i < maxRetries; i++ {
		resp, err := http.Get(baseURL + "/health")
		if err == nil && resp.StatusCode == 200 {
			resp.Body.Close()
			return
		}
		time.Sleep(1 * time.Second)
	}
	t.Fatal("server did not become ready in time")
}

func do(t *testing.T, method, url, token string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func get(t *testing.T, url, token string) *http.Response {
	return do(t, http.MethodGet, url, token, nil)
}

func post(t *testing.T, url, token string, body interface{}) *http.Response {
	return do(t, http.MethodPost, url, token, body)
}

func put(t *testing.T, url, token string, body interface{}) *http.Response {
	return do(t, http.MethodPut, url, token, body)
}

func decodeJSON(t *testing.T, resp *http.Response, target interface{}) {
	defer resp.Body.Close()
	err := json.NewDecoder(resp.Body).Decode(target)
	if err != nil && resp.StatusCode >= 400 {
		// error bodies might not be JSON
		return
	}
	require.NoError(t, err)
}

func TestMain(m *testing.M) {
	fmt.Println("Starting API tests, make sure the server is running: make docker-up")
	os.Exit(m.Run())
}
