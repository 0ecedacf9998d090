package ui

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"cardiodash/ui/templates/fragments"
)

func parseTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"fixed": func(v float64, prec int) string {
			return strconv.FormatFloat(v, 'f', prec, 64)
		},
		"cellStyle": func(background, foreground string) template.CSS {
			return template.CSS(fmt.Sprintf("background:%s;color:%s", background, foreground))
		},
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, fragments.Patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	for _, name := range fragments.GetAllTemplatePaths() {
		if templates.Lookup(name) == nil {
			return nil, fmt.Errorf("template %s is missing", name)
		}
	}
	return templates, nil
}

// renderTemplate executes a template with the given data
func (s *Server) renderTemplate(c *gin.Context, status int, templateName string, data interface{}) {
	// First render to a buffer to catch any errors before writing to response
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		log.Error().Err(err).Str("template", templateName).Msg("[Template] render failed")
		c.String(500, "template rendering failed")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
