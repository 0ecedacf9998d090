package ui

import (
	"encoding/base64"
	"html/template"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"cardiodash/ui/templates/fragments"
)

type landingPage struct {
	Title      string
	Background template.CSS
}

// handleLanding renders the entry page
func (s *Server) handleLanding(c *gin.Context) {
	s.renderTemplate(c, http.StatusOK, fragments.LandingPage, landingPage{
		Title:      "Heart Failure Check-Up",
		Background: s.backgroundImage(),
	})
}

// backgroundImage inlines the configured image as a data URL. A missing or
// unreadable file leaves the page on its plain CSS background.
func (s *Server) backgroundImage() template.CSS {
	s.backgroundOnce.Do(func() {
		path := s.cfg.Data.BackgroundImage
		data, err := os.ReadFile(path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("[Landing] background image unavailable, using plain background")
			return
		}
		s.background = backgroundCSS(path, data)
	})
	return s.background
}

func backgroundCSS(path string, data []byte) template.CSS {
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	encoded := base64.StdEncoding.EncodeToString(data)
	return template.CSS(`url("data:` + mimeType + `;base64,` + encoded + `")`)
}
