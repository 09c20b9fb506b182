package handlers

import (
	"net/http"

	"github.com/YxungHermes/LVR-HM-sub001/internal/infra/http/middleware"
	"github.com/YxungHermes/LVR-HM-sub001/internal/usecase"
)

// CronHandler triggers the follow-up sweep. The schedule lives in an
// external cron service; this endpoint just runs one bounded pass.
type CronHandler struct {
	SweepUC *usecase.FollowUpSweepUseCase
}

func NewCronHandler(uc *usecase.FollowUpSweepUseCase) *CronHandler {
	return &CronHandler{SweepUC: uc}
}

func (h *CronHandler) HandleFollowUps(w http.ResponseWriter, r *http.Request) {
	output, err := h.SweepUC.Execute(r.Context())
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	middleware.RecordFollowUps(output.Sent)
	writeJSON(w, http.StatusOK, output)
}
