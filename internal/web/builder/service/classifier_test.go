package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Laisky/supabuilder-api/internal/web/builder/dto"
	"github.com/Laisky/supabuilder-api/internal/web/builder/model"
)

func TestClassifyMessages(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		message  string
		category model.Category
		params   map[string]string
	}{
		{
			name:     "no keywords",
			message:  "hello there",
			category: model.CategoryNone,
			params:   map[string]string{},
		},
		{
			name:     "empty message",
			message:  "",
			category: model.CategoryNone,
			params:   map[string]string{},
		},
		{
			name:     "github clone with url",
			message:  "clone https://github.com/acme/widgets",
			category: model.CategoryGithubClone,
			params:   map[string]string{"url": "https://github.com/acme/widgets"},
		},
		{
			name:     "github clone case insensitive",
			message:  "please CLONE https://GitHub.com/acme/widgets for me",
			category: model.CategoryGithubClone,
			params:   map[string]string{"url": "https://GitHub.com/acme/widgets"},
		},
		{
			name:     "website clone",
			message:  "clone https://stripe.com please",
			category: model.CategoryWebsiteClone,
			params:   map[string]string{"url": "https://stripe.com"},
		},
		{
			name:     "clone mentioning github without a github.com url",
			message:  "clone my github project",
			category: model.CategoryWebsiteClone,
			params:   map[string]string{"url": ""},
		},
		{
			name:     "clone without any site reference",
			message:  "clone my repo",
			category: model.CategoryNone,
			params:   map[string]string{},
		},
		{
			name:     "app build with name",
			message:  "build an app like Notion",
			category: model.CategoryAppBuild,
			params:   map[string]string{"appName": "Notion"},
		},
		{
			name:     "app build mixed case",
			message:  "can you Build an APP LIKE Spotify today",
			category: model.CategoryAppBuild,
			params:   map[string]string{"appName": "Spotify"},
		},
		{
			name:     "app build without name",
			message:  "build an app like ",
			category: model.CategoryAppBuild,
			params:   map[string]string{"appName": "your favorite app"},
		},
		{
			name:     "debug request",
			message:  "debug this for me",
			category: model.CategoryDebug,
			params:   map[string]string{},
		},
		{
			name:     "fix request",
			message:  "please fix my login form",
			category: model.CategoryDebug,
			params:   map[string]string{},
		},
		{
			name:     "clone beats app build",
			message:  "clone https://github.com/acme/widgets and build an app like it",
			category: model.CategoryGithubClone,
			params:   map[string]string{"url": "https://github.com/acme/widgets"},
		},
		{
			name:     "app build beats debug",
			message:  "build an app like Figma and fix my old one",
			category: model.CategoryAppBuild,
			params:   map[string]string{"appName": "Figma"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			category, params := Classify(tc.message, nil)
			require.Equal(t, tc.category, category)
			require.Equal(t, tc.params, params)
		})
	}
}

func TestClassifyFiles(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		message  string
		files    []dto.FileDescriptor
		category model.Category
	}{
		{
			name:     "image file",
			files:    []dto.FileDescriptor{{Name: "logo.png", MimeType: "image/png"}},
			category: model.CategoryImageAnalysis,
		},
		{
			name:     "empty message with image still classifies",
			message:  "",
			files:    []dto.FileDescriptor{{Name: "logo.png", MimeType: "image/png"}},
			category: model.CategoryImageAnalysis,
		},
		{
			name:     "zip file",
			files:    []dto.FileDescriptor{{Name: "project.ZIP", MimeType: "application/octet-stream"}},
			category: model.CategoryZipExtraction,
		},
		{
			name:     "figma file",
			files:    []dto.FileDescriptor{{Name: "homepage.figma", MimeType: "application/octet-stream"}},
			category: model.CategoryFigmaConversion,
		},
		{
			name:     "generic file",
			files:    []dto.FileDescriptor{{Name: "main.go", MimeType: "text/plain"}},
			category: model.CategoryFileAnalysis,
		},
		{
			name: "image beats zip regardless of order",
			files: []dto.FileDescriptor{
				{Name: "project.zip", MimeType: "application/zip"},
				{Name: "shot.jpg", MimeType: "image/jpeg"},
			},
			category: model.CategoryImageAnalysis,
		},
		{
			name: "zip beats figma regardless of order",
			files: []dto.FileDescriptor{
				{Name: "design.figma", MimeType: "application/octet-stream"},
				{Name: "bundle.zip", MimeType: "application/zip"},
			},
			category: model.CategoryZipExtraction,
		},
		{
			name:    "files beat clone keywords",
			message: "clone https://github.com/acme/widgets",
			files:   []dto.FileDescriptor{{Name: "notes.txt", MimeType: "text/plain"}},
			// the attachment wins even though the text matches a rule
			category: model.CategoryFileAnalysis,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			category, params := Classify(tc.message, tc.files)
			require.Equal(t, tc.category, category)
			require.NotNil(t, params)
			require.Empty(t, params)
		})
	}
}
