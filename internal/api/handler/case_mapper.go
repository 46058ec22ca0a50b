package handler

import (
	"github.com/taishoku-agency/consultation-system/internal/core/domain"
	"github.com/taishoku-agency/consultation-system/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req createCaseRequest) ports.CreateCaseInput {
	return ports.CreateCaseInput{
		CompanyName:  req.CompanyName,
		EmployeeName: req.EmployeeName,
		Reason:       req.Reason,
		UserID:       req.UserID,
		Status:       req.Status,
	}
}

func toUpdateInput(req updateCaseRequest) ports.UpdateCaseInput {
	return ports.UpdateCaseInput{
		CompanyName:  req.CompanyName,
		EmployeeName: req.EmployeeName,
		Reason:       req.Reason,
		Status:       req.Status,
	}
}

// --- Service result → HTTP response ---

func toCaseResponse(d ports.CaseDetail) caseResponse {
	return caseResponse{
		ID:           d.ID,
		UserID:       d.UserID,
		CompanyName:  d.CompanyName,
		EmployeeName: d.EmployeeName,
		Reason:       d.Reason,
		Status:       d.Status,
		StatusLabel:  d.StatusLabel,
		Progress:     d.Progress,
		LastCallAt:   d.LastCallAt,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
		Links: caseLinks{
			Self:    "/v1/cases/" + d.ID,
			Call:    "/v1/cases/" + d.ID + "/call",
			Results: "/v1/cases/" + d.ID + "/results",
		},
	}
}

func toListResponse(r *ports.ListCasesResult) listCasesResponse {
	data := make([]caseResponse, 0, len(r.Items))
	for _, item := range r.Items {
		data = append(data, toCaseResponse(item))
	}
	return listCasesResponse{
		Data: data,
		Pagination: paginationResponse{
			Total:      r.Total,
			Page:       r.Page,
			Limit:      r.Limit,
			TotalPages: r.TotalPages,
		},
	}
}

func toCallResultResponse(r *domain.CallResult) callResultResponse {
	return callResultResponse{
		ID:        r.ID,
		CaseID:    r.CaseID,
		Summary:   r.Summary,
		Outcome:   r.Outcome,
		CreatedAt: r.CreatedAt,
	}
}
