package api

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"taskdesk/internal/models"
)

func TestCreateTaskStartsProcessing(t *testing.T) {
	app := createTestApp()

	email := uniqueEmail("taskcreate")
	registerUser(t, app, "Task User", email, "secret1")
	cookie := loginUser(t, app, email, "secret1")

	resp, result := doJSON(t, app, "POST", "/tasks", map[string]string{"name": "write spec"}, cookie)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected status 201 but got %d", resp.StatusCode)
	}
	data, ok := result["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected data field in create task response")
	}
	if data["status"] != models.StatusProcessing {
		t.Errorf("Expected status %q but got %v", models.StatusProcessing, data["status"])
	}
	if data["name"] != "write spec" {
		t.Errorf("Expected name 'write spec' but got %v", data["name"])
	}
}

func TestCreateTaskValidation(t *testing.T) {
	app := createTestApp()

	email := uniqueEmail("taskvalid")
	registerUser(t, app, "Task User", email, "secret1")
	cookie := loginUser(t, app, email, "secret1")

	resp, result := doJSON(t, app, "POST", "/tasks", map[string]string{}, cookie)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected status 400 but got %d", resp.StatusCode)
	}
	violations, ok := result["message"].([]interface{})
	if !ok || len(violations) != 1 {
		t.Errorf("Expected a single validation violation, got %v", result["message"])
	}
}

func TestTasksRequireSession(t *testing.T) {
	app := createTestApp()

	for _, route := range []struct{ method, path string }{
		{"GET", "/tasks"},
		{"POST", "/tasks"},
		{"PUT", "/tasks/1"},
		{"DELETE", "/tasks/1"},
	} {
		resp, _ := doJSON(t, app, route.method, route.path, nil, nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("Expected 401 for %s %s without session but got %d", route.method, route.path, resp.StatusCode)
		}
	}
}

func TestListTasksScopedToOwner(t *testing.T) {
	app := createTestApp()

	email := uniqueEmail("tasklist")
	registerUser(t, app, "List User", email, "secret1")
	cookie := loginUser(t, app, email, "secret1")

	resp, _ := doJSON(t, app, "POST", "/tasks", map[string]string{"name": "only task"}, cookie)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected status 201 creating task but got %d", resp.StatusCode)
	}

	resp, result := doJSON(t, app, "GET", "/tasks", nil, cookie)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200 but got %d", resp.StatusCode)
	}
	tasks, ok := result["data"].([]interface{})
	if !ok {
		t.Fatalf("Expected data field in list response")
	}
	if len(tasks) != 1 {
		t.Fatalf("Expected exactly one task for a fresh user but got %d", len(tasks))
	}
	task := tasks[0].(map[string]interface{})
	if task["name"] != "only task" {
		t.Errorf("Expected task 'only task' but got %v", task["name"])
	}
}

func TestUpdateTask(t *testing.T) {
	app := createTestApp()

	email := uniqueEmail("taskupdate")
	registerUser(t, app, "Update User", email, "secret1")
	cookie := loginUser(t, app, email, "secret1")

	_, created := doJSON(t, app, "POST", "/tasks", map[string]string{"name": "old name"}, cookie)
	taskID := int(created["data"].(map[string]interface{})["id"].(float64))

	resp, result := doJSON(t, app, "PUT", fmt.Sprintf("/tasks/%d", taskID), map[string]string{
		"name":   "new name",
		"status": models.StatusCompleted,
	}, cookie)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200 but got %d", resp.StatusCode)
	}
	data := result["data"].(map[string]interface{})
	if data["name"] != "new name" {
		t.Errorf("Expected updated name but got %v", data["name"])
	}
	if data["status"] != models.StatusCompleted {
		t.Errorf("Expected status %q but got %v", models.StatusCompleted, data["status"])
	}
}

func TestUpdateTaskInvalidStatus(t *testing.T) {
	app := createTestApp()

	email := uniqueEmail("taskstatus")
	registerUser(t, app, "Status User", email, "secret1")
	cookie := loginUser(t, app, email, "secret1")

	_, created := doJSON(t, app, "POST", "/tasks", map[string]string{"name": "task"}, cookie)
	taskID := int(created["data"].(map[string]interface{})["id"].(float64))

	resp, _ := doJSON(t, app, "PUT", fmt.Sprintf("/tasks/%d", taskID), map[string]string{
		"status": "pending",
	}, cookie)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400 for invalid status but got %d", resp.StatusCode)
	}
}

func TestTaskMutationNotFoundBeforeForbidden(t *testing.T) {
	app := createTestApp()

	email := uniqueEmail("tasknf")
	registerUser(t, app, "NF User", email, "secret1")
	cookie := loginUser(t, app, email, "secret1")

	resp, _ := doJSON(t, app, "PUT", "/tasks/999999999", map[string]string{"name": "x"}, cookie)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 updating missing task but got %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, app, "DELETE", "/tasks/999999999", nil, cookie)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 deleting missing task but got %d", resp.StatusCode)
	}
}

func TestTaskOwnership(t *testing.T) {
	app := createTestApp()

	aliceEmail := uniqueEmail("owner_alice")
	registerUser(t, app, "Alice", aliceEmail, "secret1")
	aliceCookie := loginUser(t, app, aliceEmail, "secret1")

	_, created := doJSON(t, app, "POST", "/tasks", map[string]string{"name": "alice task"}, aliceCookie)
	taskID := int(created["data"].(map[string]interface{})["id"].(float64))

	bobEmail := uniqueEmail("owner_bob")
	registerUser(t, app, "Bob", bobEmail, "secret2")
	bobCookie := loginUser(t, app, bobEmail, "secret2")

	resp, _ := doJSON(t, app, "GET", fmt.Sprintf("/tasks/%d", taskID), nil, bobCookie)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("Expected 403 fetching another user's task but got %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, app, "PUT", fmt.Sprintf("/tasks/%d", taskID), map[string]string{"name": "stolen"}, bobCookie)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("Expected 403 updating another user's task but got %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, app, "DELETE", fmt.Sprintf("/tasks/%d", taskID), nil, bobCookie)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("Expected 403 deleting another user's task but got %d", resp.StatusCode)
	}

	// The owner still sees the task untouched.
	resp, result := doJSON(t, app, "GET", fmt.Sprintf("/tasks/%d", taskID), nil, aliceCookie)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 for the owner but got %d", resp.StatusCode)
	}
	if result["data"].(map[string]interface{})["name"] != "alice task" {
		t.Errorf("Task must be untouched after forbidden attempts")
	}
}

func TestDeleteTask(t *testing.T) {
	app := createTestApp()

	email := uniqueEmail("taskdelete")
	registerUser(t, app, "Delete User", email, "secret1")
	cookie := loginUser(t, app, email, "secret1")

	_, created := doJSON(t, app, "POST", "/tasks", map[string]string{"name": "doomed"}, cookie)
	taskID := int(created["data"].(map[string]interface{})["id"].(float64))

	resp, _ := doJSON(t, app, "DELETE", fmt.Sprintf("/tasks/%d", taskID), nil, cookie)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("Expected status 204 but got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, "GET", fmt.Sprintf("/tasks/%d", taskID), nil, cookie)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for deleted task but got %d", resp.StatusCode)
	}
}

func TestTaskAutoCompletes(t *testing.T) {
	app := createTestApp()

	email := uniqueEmail("autocomplete")
	registerUser(t, app, "Auto User", email, "secret1")
	cookie := loginUser(t, app, email, "secret1")

	_, created := doJSON(t, app, "POST", "/tasks", map[string]string{"name": "slow job"}, cookie)
	taskID := int(created["data"].(map[string]interface{})["id"].(float64))

	resp, result := doJSON(t, app, "GET", fmt.Sprintf("/tasks/%d", taskID), nil, cookie)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200 but got %d", resp.StatusCode)
	}
	if result["data"].(map[string]interface{})["status"] != models.StatusProcessing {
		t.Fatalf("Expected a fresh task to be processing")
	}

	// The test worker runs with a 2s delay and a 1s poll interval.
	time.Sleep(testCompletionDelay + 2*time.Second)

	resp, result = doJSON(t, app, "GET", fmt.Sprintf("/tasks/%d", taskID), nil, cookie)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200 but got %d", resp.StatusCode)
	}
	if result["data"].(map[string]interface{})["status"] != models.StatusCompleted {
		t.Errorf("Expected task to auto-complete after the delay, got %v", result["data"].(map[string]interface{})["status"])
	}
}

func TestDeletedTaskStaysDeleted(t *testing.T) {
	app := createTestApp()

	email := uniqueEmail("resurrect")
	registerUser(t, app, "Resurrect User", email, "secret1")
	cookie := loginUser(t, app, email, "secret1")

	_, created := doJSON(t, app, "POST", "/tasks", map[string]string{"name": "short lived"}, cookie)
	taskID := int(created["data"].(map[string]interface{})["id"].(float64))

	resp, _ := doJSON(t, app, "DELETE", fmt.Sprintf("/tasks/%d", taskID), nil, cookie)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("Expected status 204 but got %d", resp.StatusCode)
	}

	// Wait past the would-be completion time; the cancelled job must not
	// bring the task back.
	time.Sleep(testCompletionDelay + 2*time.Second)

	resp, _ = doJSON(t, app, "GET", fmt.Sprintf("/tasks/%d", taskID), nil, cookie)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected deleted task to stay deleted but got %d", resp.StatusCode)
	}
}
