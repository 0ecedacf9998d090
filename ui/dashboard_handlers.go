package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"cardiodash/domain/clinical"
	"cardiodash/internal/dashboard"
	"cardiodash/internal/dataset"
	"cardiodash/internal/errors"
	"cardiodash/ui/templates/fragments"
)

type dashboardPage struct {
	View  dashboard.View
	Error string
}

// filterQuery is the Data Exploration form, submitted with GET so that the
// filter is part of the page URL.
type filterQuery struct {
	AgeLo *int   `form:"age_lo"`
	AgeHi *int   `form:"age_hi"`
	Sex   string `form:"sex"`
}

func (q filterQuery) filter() *dataset.Filter {
	if q.AgeLo == nil && q.AgeHi == nil && q.Sex == "" {
		return nil
	}
	f := dataset.Filter{
		Age: dataset.AgeRange{Lo: dataset.DefaultAgeLo, Hi: dataset.DefaultAgeHi},
		Sex: clinical.ParseSexFilter(q.Sex),
	}
	if q.AgeLo != nil {
		f.Age.Lo = *q.AgeLo
	}
	if q.AgeHi != nil {
		f.Age.Hi = *q.AgeHi
	}
	return &f
}

// handleDashboard renders the current sub-view. A ?menu= deep link switches
// sub-view even while the sidebar is hidden.
func (s *Server) handleDashboard(c *gin.Context) {
	id := sessionID(c)
	state := s.sessions.Load(id)

	if raw := c.Query("menu"); raw != "" {
		if m, err := dashboard.ParseMenu(raw); err == nil {
			state.Navigate(m)
		} else {
			log.Debug().Err(err).Msg("[Dashboard] ignoring menu deep link")
		}
	}

	in := dashboard.Input{State: state}
	var q filterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		log.Debug().Err(err).Msg("[Dashboard] malformed filter, using defaults")
	} else {
		in.Filter = q.filter()
	}
	s.render(c, id, in, http.StatusOK)
}

// handleToggleSidebar flips sidebar visibility and returns to the dashboard
func (s *Server) handleToggleSidebar(c *gin.Context) {
	id := sessionID(c)
	state := s.sessions.Load(id)
	state.ToggleSidebar()
	s.save(id, state)
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

// handleSelectMenu applies the sidebar selector
func (s *Server) handleSelectMenu(c *gin.Context) {
	id := sessionID(c)
	state := s.sessions.Load(id)
	if m, err := dashboard.ParseMenu(c.PostForm("menu")); err == nil {
		if !state.SelectFromSidebar(m) {
			log.Debug().Str("menu", string(m)).Msg("[Dashboard] selector used while sidebar hidden")
		}
		s.save(id, state)
	}
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

// handlePredict is the explicit predict action of the Model Prediction view
func (s *Server) handlePredict(c *gin.Context) {
	id := sessionID(c)
	state := s.sessions.Load(id)
	state.Navigate(dashboard.MenuPrediction)

	patient := clinical.DefaultPatientInput()
	if err := c.ShouldBind(&patient); err != nil {
		view := s.controller.Render(c.Request.Context(), dashboard.Input{State: state, Patient: &patient})
		s.save(id, view.State)
		s.renderTemplate(c, http.StatusBadRequest, fragments.DashboardPage, dashboardPage{
			View:  view,
			Error: errors.WithCode(errors.CodeInvalidInput, err).Error(),
		})
		return
	}
	s.render(c, id, dashboard.Input{State: state, Patient: &patient, Predict: true}, http.StatusOK)
}

func (s *Server) render(c *gin.Context, id string, in dashboard.Input, status int) {
	view := s.controller.Render(c.Request.Context(), in)
	s.save(id, view.State)

	page := dashboardPage{View: view}
	if view.Err != nil {
		page.Error = view.Err.Error()
	}
	s.renderTemplate(c, status, fragments.DashboardPage, page)
}

func (s *Server) save(id string, state dashboard.SessionState) {
	if err := s.sessions.Save(id, state); err != nil {
		log.Warn().Err(err).Str("session", id).Msg("[Dashboard] failed to persist session state")
	}
}
