package service

import (
	"fmt"
	"strings"

	"github.com/Laisky/supabuilder-api/internal/web/builder/model"
	"github.com/Laisky/supabuilder-api/library/log"

	"github.com/Laisky/zap"
	"github.com/gomarkdown/markdown"
	"github.com/jinzhu/copier"
)

// Synthesizer turns a classified intent into the narrative text shown to
// the user and the action descriptor consumed by the workspace layer.
// Deterministic: same (category, parameters, model id) always yields the
// same output.
type Synthesizer struct {
	registry *model.Registry
}

func NewSynthesizer(registry *model.Registry) *Synthesizer {
	return &Synthesizer{registry: registry}
}

// Synthesize renders the category's narrative template and builds the
// action descriptor. Every category except none opens a workspace.
func (s *Synthesizer) Synthesize(
	category model.Category,
	params map[string]string,
	fileNames []string,
	modelID string,
) (narrative string, action model.ActionDescriptor) {
	resolvedID, entry := s.registry.Lookup(modelID)

	action = model.ActionDescriptor{
		Category:      category,
		OpenWorkspace: category != model.CategoryNone,
		Parameters:    map[string]string{},
		ModelUsed:     entry.Name,
		ProviderUsed:  entry.Provider,
	}
	// snapshot so later mutation of the caller's map cannot leak into the
	// immutable descriptor
	if err := copier.Copy(&action.Parameters, params); err != nil {
		log.Logger.Warn("copy action parameters", zap.Error(err))
	}

	narrative = renderNarrative(category, action.Parameters, fileNames)
	if resolvedID != modelID && modelID != "" {
		log.Logger.Debug("unknown model id, using default",
			zap.String("requested", modelID),
			zap.String("resolved", resolvedID))
	}

	return narrative, action
}

// NarrativeHTML renders the markdown narrative for the web client.
func (s *Synthesizer) NarrativeHTML(narrative string) string {
	return string(markdown.ToHTML([]byte(narrative), nil, nil))
}

func renderNarrative(category model.Category, params map[string]string, fileNames []string) string {
	attached := joinFileNames(fileNames)

	switch category {
	case model.CategoryImageAnalysis:
		return fmt.Sprintf("I'll analyze the attached image%s (%s) and describe "+
			"what I see, then we can turn it into working UI code if you like.",
			plural(fileNames), attached)
	case model.CategoryZipExtraction:
		return fmt.Sprintf("I'll unpack %s and walk through its contents so we "+
			"can load the project into a workspace.", attached)
	case model.CategoryFigmaConversion:
		return fmt.Sprintf("I'll convert your Figma design (%s) into working "+
			"frontend code, matching the layout and styles as closely as possible.",
			attached)
	case model.CategoryFileAnalysis:
		return fmt.Sprintf("I'll review the attached file%s (%s) and summarize "+
			"what the code does, flagging anything worth improving.",
			plural(fileNames), attached)
	case model.CategoryGithubClone:
		return fmt.Sprintf("I'll clone the GitHub repository %s into a fresh "+
			"workspace so you can browse and edit the code right away.",
			params["url"])
	case model.CategoryWebsiteClone:
		return fmt.Sprintf("I'll recreate the website %s as editable frontend "+
			"code in a new workspace.", params["url"])
	case model.CategoryAppBuild:
		return fmt.Sprintf("Let's build an app like %s! I'm scaffolding a new "+
			"workspace with a starter layout you can iterate on.",
			params["appName"])
	case model.CategoryDebug:
		return "I'll take a look at the code and track down the problem. " +
			"Opening a workspace so we can fix it together."
	default:
		return "I can clone a GitHub repository or a website, build an app " +
			"like one you love, debug code, or analyze files you attach. " +
			"Tell me what you'd like to do!"
	}
}

func joinFileNames(fileNames []string) string {
	if len(fileNames) == 0 {
		return "no files"
	}

	return strings.Join(fileNames, ", ")
}

func plural(fileNames []string) string {
	if len(fileNames) > 1 {
		return "s"
	}

	return ""
}
