package web

import (
	"bytes"
	"strings"
	"testing"

	"github.com/listkeep/backend/domain"
)

func TestRendererParsesAllPages(t *testing.T) {
	renderer, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	user := &domain.User{ID: "u1", FirstName: "Jane", LastName: "Doe"}
	task := &domain.Task{ID: "t1", AuthorID: "u1", Title: "Buy milk", Description: "two liters"}

	tests := []struct {
		page string
		data Data
		want string
	}{
		{PageLanding, Data{}, "Log in or register"},
		{PageTasks, Data{User: user, Tasks: []domain.Task{*task}}, "Buy milk"},
		{PageTasks, Data{User: user}, "Nothing to do."},
		{PageCompleted, Data{User: user}, "No completed tasks yet."},
		{PageRegister, Data{}, "Register"},
		{PageLogin, Data{}, "Log In"},
		{PageEdit, Data{User: user, Task: task}, "Buy milk"},
		{PageError, Data{Status: 404, Message: "task not found"}, "task not found"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		if err := renderer.Render(&buf, tt.page, tt.data); err != nil {
			t.Errorf("render %s: %v", tt.page, err)
			continue
		}
		if !strings.Contains(buf.String(), tt.want) {
			t.Errorf("page %s: output missing %q", tt.page, tt.want)
		}
	}
}

func TestRenderEscapesUserContent(t *testing.T) {
	renderer, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	var buf bytes.Buffer
	data := Data{
		User:  &domain.User{ID: "u1", FirstName: "Jane"},
		Tasks: []domain.Task{{ID: "t1", Title: "<script>alert(1)</script>"}},
	}
	if err := renderer.Render(&buf, PageTasks, data); err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(buf.String(), "<script>alert(1)</script>") {
		t.Error("task title rendered unescaped")
	}
}

func TestRenderFlash(t *testing.T) {
	renderer, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	var buf bytes.Buffer
	if err := renderer.Render(&buf, PageLogin, Data{Flash: "Incorrect email or password"}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "Incorrect email or password") {
		t.Error("flash message not rendered")
	}
}

func TestRenderUnknownPage(t *testing.T) {
	renderer, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	var buf bytes.Buffer
	if err := renderer.Render(&buf, "nope", Data{}); err == nil {
		t.Error("expected an error for an unknown page")
	}
}
