package controller

import (
	"strings"
	"testing"

	"github.com/groveterm/grove/internal/workspace"
)

func TestMaxLineWidth(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  int
	}{
		{"empty", []string{}, 0},
		{"single", []string{"hello"}, 5},
		{"multiple", []string{"hi", "hello", "hey"}, 5},
		{"with ansi", []string{"\x1b[31mred\x1b[0m"}, 3},
		{"empty lines", []string{"", "", ""}, 0},
		{"mixed", []string{"short", "longer line", "mid"}, 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := maxLineWidth(tt.lines)
			if got != tt.want {
				t.Errorf("maxLineWidth() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCompositeDialogRow(t *testing.T) {
	style := dimStyleFor(workspace.DialogCreate)
	tests := []struct {
		name        string
		bgLine      string
		modalLine   string
		modalStartX int
		modalWidth  int
		totalWidth  int
	}{
		{"basic centered", "background text here", "[MODAL]", 5, 7, 20},
		{"modal at left edge", "background", "[M]", 0, 3, 10},
		{"background shorter than modal position", "hi", "[MODAL]", 10, 7, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := compositeDialogRow(style, tt.bgLine, tt.modalLine, tt.modalStartX, tt.modalWidth, tt.totalWidth)
			if !strings.Contains(got, tt.modalLine) {
				t.Errorf("compositeDialogRow() missing modal content %q", tt.modalLine)
			}
		})
	}
}

func TestOverlayDialog(t *testing.T) {
	tests := []struct {
		name       string
		background string
		modal      string
		width      int
		height     int
		kind       workspace.DialogKind
		checkFn    func(t *testing.T, result string)
	}{
		{
			name:       "basic overlay",
			background: "line1\nline2\nline3\nline4\nline5",
			modal:      "[M]",
			width:      10,
			height:     5,
			kind:       workspace.DialogCreate,
			checkFn: func(t *testing.T, result string) {
				lines := strings.Split(result, "\n")
				if len(lines) != 5 {
					t.Errorf("expected 5 lines, got %d", len(lines))
				}
				if !strings.Contains(lines[2], "[M]") {
					t.Errorf("modal not found in expected line")
				}
			},
		},
		{
			name:       "strips ansi from background",
			background: "\x1b[31mred\x1b[0m\n\x1b[32mgreen\x1b[0m",
			modal:      "X",
			width:      10,
			height:     3,
			kind:       workspace.DialogCreate,
			checkFn: func(t *testing.T, result string) {
				if strings.Contains(result, "\x1b[31m") {
					t.Errorf("original red ANSI code should be stripped")
				}
				if !strings.Contains(result, "X") {
					t.Errorf("modal should be present")
				}
			},
		},
		{
			name:       "modal larger than background",
			background: "a\nb",
			modal:      "MODAL",
			width:      10,
			height:     5,
			kind:       workspace.DialogCreate,
			checkFn: func(t *testing.T, result string) {
				lines := strings.Split(result, "\n")
				if len(lines) != 5 {
					t.Errorf("expected 5 lines, got %d", len(lines))
				}
				found := false
				for _, line := range lines {
					if strings.Contains(line, "MODAL") {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("modal not found in result")
				}
			},
		},
		{
			name:       "delete dialog dims toward danger",
			background: "line1\nline2\nline3",
			modal:      "[X]",
			width:      10,
			height:     3,
			kind:       workspace.DialogDelete,
			checkFn: func(t *testing.T, result string) {
				if !strings.Contains(result, "[X]") {
					t.Errorf("modal should be present")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := overlayDialog(tt.background, tt.modal, tt.width, tt.height, tt.kind)
			tt.checkFn(t, result)
		})
	}
}

func TestDimLine(t *testing.T) {
	style := dimStyleFor(workspace.DialogCreate)
	input := "\x1b[31mred text\x1b[0m"
	result := dimLine(style, input)

	if strings.Contains(result, "\x1b[31m") {
		t.Errorf("dimLine should strip original ANSI codes")
	}
	if !strings.Contains(result, "red text") {
		t.Errorf("dimLine should preserve text content")
	}
}
