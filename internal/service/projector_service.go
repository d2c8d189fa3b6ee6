package service

import (
	"deal-alert-be/internal/entity"
)

// IProjectorService derives a session's personal alert view from the shared
// pool. Projection is a pure filter over a pool snapshot: first the session's
// user-seen product ids are dropped, then its closed alert ids, and finally
// anything already marked seen globally. The pool's ranking order is preserved
// as-is; projection never re-sorts.
type IProjectorService interface {
	Project(snapshot entity.AlertMap, session *entity.Session, globallySeen func(productId string) bool) entity.AlertMap
}

type projectorService struct{}

func NewProjectorService() IProjectorService {
	return &projectorService{}
}

func (p *projectorService) Project(snapshot entity.AlertMap, session *entity.Session, globallySeen func(productId string) bool) entity.AlertMap {
	view := entity.EmptyAlertMap()
	for category, alerts := range snapshot {
		kept := make([]entity.Alert, 0, len(alerts))
		for _, alert := range alerts {
			if session != nil {
				if session.IsUserSeen(alert.ProductId) {
					continue
				}
				if session.IsClosed(alert.Id) {
					continue
				}
			}
			if globallySeen != nil && globallySeen(alert.ProductId) {
				continue
			}
			kept = append(kept, alert)
		}
		view[category] = kept
	}
	return view
}
