package service

import (
	"regexp"
	"strings"

	"github.com/Laisky/supabuilder-api/internal/web/builder/dto"
	"github.com/Laisky/supabuilder-api/internal/web/builder/model"
)

var (
	regexpURL     = regexp.MustCompile(`https?://\S+`)
	regexpAppLike = regexp.MustCompile(`(?i)app like (\w+)`)
)

// fallbackAppName is interpolated when "app like" is not followed by a
// word token.
const fallbackAppName = "your favorite app"

// Classify assigns exactly one intent category to a user turn. Total
// function: it never fails, "no strong match" is the valid none category.
//
// Rule priority (first match wins):
//  1. attachments, inspected image > zip > figma > generic regardless of
//     their order in the list; files always beat message text
//  2. clone requests, split on github.com vs. any other site
//  3. "build ... app like X"
//  4. debug/fix requests
//  5. none
func Classify(message string, files []dto.FileDescriptor) (model.Category, map[string]string) {
	if len(files) > 0 {
		return classifyFiles(files), map[string]string{}
	}

	lower := strings.ToLower(message)

	if strings.Contains(lower, "clone") &&
		(strings.Contains(lower, "http") || strings.Contains(lower, "github")) {
		// the url may legitimately be empty here; the product keeps the
		// clone category anyway
		params := map[string]string{"url": regexpURL.FindString(message)}
		if strings.Contains(lower, "github.com") {
			return model.CategoryGithubClone, params
		}
		return model.CategoryWebsiteClone, params
	}

	if strings.Contains(lower, "build") && strings.Contains(lower, "app like") {
		appName := fallbackAppName
		if matched := regexpAppLike.FindStringSubmatch(message); len(matched) == 2 {
			appName = matched[1]
		}
		return model.CategoryAppBuild, map[string]string{"appName": appName}
	}

	if strings.Contains(lower, "debug") || strings.Contains(lower, "fix") {
		return model.CategoryDebug, map[string]string{}
	}

	return model.CategoryNone, map[string]string{}
}

func classifyFiles(files []dto.FileDescriptor) model.Category {
	for _, f := range files {
		if strings.HasPrefix(f.MimeType, "image/") {
			return model.CategoryImageAnalysis
		}
	}
	for _, f := range files {
		if strings.HasSuffix(strings.ToLower(f.Name), ".zip") {
			return model.CategoryZipExtraction
		}
	}
	for _, f := range files {
		if strings.Contains(strings.ToLower(f.Name), "figma") ||
			strings.Contains(strings.ToLower(f.MimeType), "figma") {
			return model.CategoryFigmaConversion
		}
	}

	return model.CategoryFileAnalysis
}
