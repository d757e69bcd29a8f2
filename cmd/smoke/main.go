package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

const (
	defaultAPIBase = "http://localhost:8080"
)

var (
	apiBase    string
	token      string
	profileID  string
	client     = &http.Client{Timeout: 60 * time.Second}
	createdIDs = make(map[string]string) // track created resources for cleanup
)

func main() {
	fmt.Println("=== Modo E2E Smoke Test ===")
	fmt.Println()

	apiBase = getEnv("API_BASE_URL", defaultAPIBase)
	token = getEnv("SMOKE_TOKEN", "")
	profileID = getEnv("SMOKE_PROFILE_ID", "")

	fmt.Printf("API Base: %s\n", apiBase)
	fmt.Printf("Token: %s\n", maskString(token))
	fmt.Printf("Profile ID: %s\n", maskString(profileID))
	fmt.Println()

	steps := []struct {
		name string
		fn   func() error
	}{
		{"Healthz", testHealthz},
		{"Dev Sign-In", testDevSignIn},
		{"Get Profile ID", testGetProfileID},
		{"Chat: Plain Question", testChatPlainQuestion},
		{"Chat: Create Task", testChatCreateTask},
		{"List Tasks", testListTasks},
		{"Update Task", testUpdateTask},
		{"Chat: Generate Workout Plan", testChatGeneratePlan},
		{"List Plans", testListPlans},
		{"Get Plan", testGetPlan},
		{"Export Plan (PDF)", testExportPlan},
		{"Chat History", testChatHistory},
		{"Delete Task", testDeleteTask},
	}

	failed := false
	for i, step := range steps {
		fmt.Printf("[%d/%d] %s... ", i+1, len(steps), step.name)
		if err := step.fn(); err != nil {
			fmt.Printf("❌ FAILED\n")
			fmt.Printf("  Error: %v\n\n", err)
			failed = true
			break
		}
		fmt.Printf("✅ OK\n")
	}

	fmt.Println()
	if failed {
		fmt.Println("❌ SMOKE TEST FAILED")
		os.Exit(1)
	}

	fmt.Println("✅ ALL SMOKE TESTS PASSED")
}

func testHealthz() error {
	resp, err := doRequest("GET", "/healthz", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return expectStatus(resp, http.StatusOK)
}

// testDevSignIn obtains a token when none was provided via SMOKE_TOKEN.
// Requires the server to run with AUTH_MODE=dev.
func testDevSignIn() error {
	if token != "" {
		return nil
	}

	resp, err := doRequest("POST", "/v1/auth/dev", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := expectStatus(resp, http.StatusOK); err != nil {
		return err
	}

	var result struct {
		AccessToken    string `json:"access_token"`
		OwnerProfileID string `json:"owner_profile_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}
	if result.AccessToken == "" {
		return fmt.Errorf("empty access_token")
	}
	token = result.AccessToken
	if profileID == "" {
		profileID = result.OwnerProfileID
	}
	return nil
}

func testGetProfileID() error {
	if profileID != "" {
		return nil
	}

	resp, err := doRequest("GET", "/v1/profiles", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := expectStatus(resp, http.StatusOK); err != nil {
		return err
	}

	var result struct {
		Profiles []struct {
			ID   string `json:"id"`
			Type string `json:"type"`
		} `json:"profiles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}
	for _, p := range result.Profiles {
		if p.Type == "owner" {
			profileID = p.ID
			return nil
		}
	}
	return fmt.Errorf("no owner profile in listing")
}

func sendChat(content string) (answer string, planID string, err error) {
	resp, err := doRequest("POST", "/v1/chat/messages", map[string]interface{}{
		"profile_id": profileID,
		"content":    content,
	})
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if err := expectStatus(resp, http.StatusOK); err != nil {
		return "", "", err
	}

	var result struct {
		AssistantMessage struct {
			Content string `json:"content"`
		} `json:"assistant_message"`
		Plan *struct {
			ID   string `json:"id"`
			Kind string `json:"kind"`
		} `json:"plan"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", "", err
	}
	if result.Plan != nil {
		planID = result.Plan.ID
	}
	return result.AssistantMessage.Content, planID, nil
}

func testChatPlainQuestion() error {
	answer, _, err := sendChat("How are you today?")
	if err != nil {
		return err
	}
	if strings.TrimSpace(answer) == "" {
		return fmt.Errorf("empty assistant answer")
	}
	return nil
}

func testChatCreateTask() error {
	answer, _, err := sendChat("Remind me to drink water, add a task for it")
	if err != nil {
		return err
	}
	if strings.TrimSpace(answer) == "" {
		return fmt.Errorf("empty assistant answer")
	}
	return nil
}

func testListTasks() error {
	resp, err := doRequest("GET", "/v1/tasks?profile_id="+profileID, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := expectStatus(resp, http.StatusOK); err != nil {
		return err
	}

	var result struct {
		Tasks []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"tasks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}
	if len(result.Tasks) == 0 {
		return fmt.Errorf("expected at least one task after the chat exchange")
	}
	createdIDs["task"] = result.Tasks[0].ID
	return nil
}

func testUpdateTask() error {
	taskID := createdIDs["task"]
	if taskID == "" {
		return fmt.Errorf("no task ID to update")
	}

	resp, err := doRequest("PATCH", "/v1/tasks/"+taskID, map[string]interface{}{
		"status": "done",
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return expectStatus(resp, http.StatusOK)
}

func testChatGeneratePlan() error {
	_, planID, err := sendChat("Build me a workout plan for tomorrow")
	if err != nil {
		return err
	}
	if planID == "" {
		return fmt.Errorf("expected a plan in the chat response")
	}
	createdIDs["plan"] = planID
	return nil
}

func testListPlans() error {
	resp, err := doRequest("GET", "/v1/plans?profile_id="+profileID, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := expectStatus(resp, http.StatusOK); err != nil {
		return err
	}

	var result struct {
		Plans []struct {
			ID string `json:"id"`
		} `json:"plans"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}
	if len(result.Plans) == 0 {
		return fmt.Errorf("expected at least one plan")
	}
	return nil
}

func testGetPlan() error {
	planID := createdIDs["plan"]
	if planID == "" {
		return fmt.Errorf("no plan ID to fetch")
	}

	resp, err := doRequest("GET", "/v1/plans/"+planID, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return expectStatus(resp, http.StatusOK)
}

func testExportPlan() error {
	planID := createdIDs["plan"]
	if planID == "" {
		return fmt.Errorf("no plan ID to export")
	}

	resp, err := doRequest("GET", "/v1/plans/"+planID+"/export", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := expectStatus(resp, http.StatusOK); err != nil {
		return err
	}

	ct := resp.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(ct, "application/pdf"):
		head := make([]byte, 4)
		if _, err := io.ReadFull(resp.Body, head); err != nil {
			return fmt.Errorf("reading PDF body: %w", err)
		}
		if string(head) != "%PDF" {
			return fmt.Errorf("body does not look like a PDF")
		}
	case strings.HasPrefix(ct, "application/json"):
		var result struct {
			URL string `json:"url"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return err
		}
		if result.URL == "" {
			return fmt.Errorf("empty presigned URL")
		}
	default:
		return fmt.Errorf("unexpected Content-Type %q", ct)
	}
	return nil
}

func testChatHistory() error {
	resp, err := doRequest("GET", "/v1/chat/messages?profile_id="+profileID, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := expectStatus(resp, http.StatusOK); err != nil {
		return err
	}

	var result struct {
		Messages []struct {
			Role string `json:"role"`
		} `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}
	if len(result.Messages) < 2 {
		return fmt.Errorf("expected user and assistant messages, got %d", len(result.Messages))
	}
	return nil
}

func testDeleteTask() error {
	taskID := createdIDs["task"]
	if taskID == "" {
		return fmt.Errorf("no task ID to delete")
	}

	resp, err := doRequest("DELETE", "/v1/tasks/"+taskID, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}
	return nil
}

// Helper functions

func doRequest(method, path string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, apiBase+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return client.Do(req)
}

func expectStatus(resp *http.Response, want int) error {
	if resp.StatusCode != want {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func maskString(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
