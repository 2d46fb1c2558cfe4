package handler

import (
	"buzzportal/internal/app/portal"
	"buzzportal/internal/app/session"
	"buzzportal/internal/app/view"
	"buzzportal/internal/configs"
)

type AppDeps struct {
	Config   *configs.AppConfig
	Portal   *portal.Portal
	Sessions *session.Store
	Renderer *view.Renderer
}
