package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sahil-lab/realEstate/internal/db"
	"github.com/sahil-lab/realEstate/internal/models"
)

const (
	testAppBinary      = "./realestate_test_app"
	testAppPort        = "8089"
	testServiceApiPort = "8091"
	testAppURL         = "http://localhost:" + testAppPort
	testServiceApiURL  = "http://localhost:" + testServiceApiPort
	testDbName         = "realestate_integration_test"
	testGatewayKey     = "integration-gateway-key"
	startupTimeout     = 15 * time.Second

	superAdminUID   = "it-super-admin"
	superAdminEmail = "it-super-admin@example.com"
)

// skipReason is set by TestMain when the environment cannot run the suite.
var skipReason string

// TestMain builds the binary, seeds a super admin and runs the app in "all"
// mode with emails captured in Redis. MONGO_URI_TEST must be set and Redis
// must be reachable at localhost:6379.
func TestMain(m *testing.M) {
	_ = godotenv.Load()
	mongoURI := os.Getenv("MONGO_URI_TEST")
	if mongoURI == "" {
		skipReason = "MONGO_URI_TEST not set"
		os.Exit(m.Run())
	}

	buildCmd := exec.Command("go", "build", "-o", testAppBinary, ".")
	if out, err := buildCmd.CombinedOutput(); err != nil {
		log.Printf("Failed to build application: %v\n%s", err, out)
		os.Exit(1)
	}

	code := func() int {
		defer os.Remove(testAppBinary)

		database, cleanup, err := seedTestData(mongoURI)
		if err != nil {
			log.Printf("Failed to seed test data: %v", err)
			return 1
		}
		defer cleanup(database)

		appCmd := exec.Command(testAppBinary, "-m", "all")
		appCmd.Env = append(os.Environ(),
			"MONGO_URI="+mongoURI,
			"MONGO_DB_NAME="+testDbName,
			"API_PORT="+testAppPort,
			"SERVICE_API_PORT="+testServiceApiPort,
			"JWT_SECRET=integration-test-secret",
			"IDENTITY_GATEWAY_KEY="+testGatewayKey,
			"GIN_MODE=release",
			"MOCK_SERVICES=true",
			"NOTIFY_ADMINS=true",
			"RATE_LIMIT_BUCKET_SIZE=200",
			"RATE_LIMIT_REFILL_RATE=100",
			"REDIS_ADDR=localhost:6379",
			"AWS_S3_BUCKET=",
		)
		appCmd.Stdout = os.Stdout
		appCmd.Stderr = os.Stderr
		if err := appCmd.Start(); err != nil {
			log.Printf("Failed to start application: %v", err)
			return 1
		}
		defer func() {
			_ = appCmd.Process.Signal(syscall.SIGTERM)
			_ = appCmd.Wait()
		}()

		if err := waitForServer(testAppURL+"/api/health", startupTimeout); err != nil {
			log.Printf("Application did not become ready: %v", err)
			return 1
		}
		return m.Run()
	}()
	os.Exit(code)
}

func seedTestData(mongoURI string) (*mongo.Database, func(*mongo.Database), error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}
	database := client.Database(testDbName)
	if err := database.Drop(ctx); err != nil {
		return nil, nil, fmt.Errorf("drop: %w", err)
	}

	now := time.Now().UTC()
	_, err = database.Collection(db.AccountsCollection).InsertOne(ctx, models.Account{
		UID:         superAdminUID,
		DisplayName: "Integration Root",
		Email:       superAdminEmail,
		Role:        models.RoleSuperAdmin,
		IsOnboarded: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("seed super admin: %w", err)
	}

	cleanup := func(d *mongo.Database) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = d.Drop(ctx)
		_ = d.Client().Disconnect(ctx)
	}
	return database, cleanup, nil
}

func waitForServer(url string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(250 * time.Millisecond)
	}
	return fmt.Errorf("timed out waiting for %s", url)
}

func requireEnv(t *testing.T) {
	t.Helper()
	if skipReason != "" {
		t.Skip(skipReason)
	}
}

func doRequest(t *testing.T, method, url, token string, headers map[string]string, body interface{}) (int, map[string]interface{}) {
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
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]interface{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func loginAs(t *testing.T, uid, email string) string {
	t.Helper()
	code, body := doRequest(t, http.MethodPost, testAppURL+"/api/auth/login", "",
		map[string]string{"X-Identity-Key": testGatewayKey},
		map[string]string{"uid": uid, "displayName": uid, "email": email})
	require.Equal(t, http.StatusOK, code, body)
	return body["token"].(string)
}

func TestIntegration_InquiryNotifiesAdmins(t *testing.T) {
	requireEnv(t)

	rootToken := loginAs(t, superAdminUID, superAdminEmail)

	code, body := doRequest(t, http.MethodPost, testAppURL+"/api/admin/properties", rootToken, nil, map[string]interface{}{
		"title":    "Integration Heights 4BHK",
		"type":     "residential",
		"price":    9900000,
		"location": map[string]string{"city": "Hyderabad", "state": "Telangana"},
	})
	require.Equal(t, http.StatusOK, code, body)
	propertyID := body["propertyId"].(string)

	code, body = doRequest(t, http.MethodPost, testAppURL+"/api/inquiries", "", nil, map[string]string{
		"propertyId": propertyID,
		"userName":   "Prospect",
		"userEmail":  "prospect@example.com",
		"userPhone":  "90000 00000",
		"message":    "Can I visit this weekend?",
	})
	require.Equal(t, http.StatusOK, code, body)

	// The background worker renders the notification into Redis.
	code, body = doRequest(t, http.MethodPost, testServiceApiURL+"/api", "", nil, map[string]interface{}{
		"method":    "getTestEmail",
		"arguments": []string{"new_inquiry", superAdminEmail},
	})
	require.Equal(t, http.StatusOK, code, body)
	data := body["data"].(map[string]interface{})
	assert.True(t, strings.Contains(data["subject"].(string), "Integration Heights 4BHK"), data["subject"])
	assert.Contains(t, data["body"], "Can I visit this weekend?")
}

func TestIntegration_RoleChangeTakesEffectImmediately(t *testing.T) {
	requireEnv(t)

	memberToken := loginAs(t, "it-member", "it-member@example.com")
	listing := map[string]interface{}{"title": "Warehouse", "type": "industrial", "price": 500000}

	code, _ := doRequest(t, http.MethodPost, testAppURL+"/api/admin/properties", memberToken, nil, listing)
	require.Equal(t, http.StatusForbidden, code)

	rootToken := loginAs(t, superAdminUID, superAdminEmail)
	code, _ = doRequest(t, http.MethodPut, testAppURL+"/api/admin/users/it-member/role", rootToken, nil, map[string]string{"role": "admin"})
	require.Equal(t, http.StatusOK, code)

	code, body := doRequest(t, http.MethodPost, testAppURL+"/api/admin/properties", memberToken, nil, listing)
	require.Equal(t, http.StatusOK, code, body)

	code, body = doRequest(t, http.MethodGet, testAppURL+"/api/admin/analytics", memberToken, nil, nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.GreaterOrEqual(t, body["totalProperties"].(float64), float64(1))
}

func TestIntegration_ServiceMetrics(t *testing.T) {
	requireEnv(t)

	resp, err := http.Get(testServiceApiURL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "realestate_http_requests_total")
}
