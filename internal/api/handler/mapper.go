package handler

import (
	"github.com/taskconnect/marketplace-api/internal/core/domain"
	"github.com/taskconnect/marketplace-api/internal/core/ports"
)

func toRegisterInput(req registerRequest) ports.RegisterInput {
	in := ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	}
	if in.Role == domain.RoleServiceProvider {
		d := req.providerDetailsRequest
		in.Provider = &ports.ProviderDetailsInput{
			Location:    d.Location,
			NationalID:  d.NationalID,
			Phone:       d.Phone,
			Service:     d.Service,
			Description: d.Description,
			Images:      d.Images,
		}
	}
	return in
}

func toProviderResponse(l domain.ProviderListing, withNationalID bool) providerResponse {
	images := l.Profile.Images
	if images == nil {
		images = []string{}
	}
	resp := providerResponse{
		ID:          l.Identity.ID,
		Name:        l.Identity.Name,
		Email:       l.Identity.Email,
		IsApproved:  l.Identity.IsApproved(),
		Location:    l.Profile.Location,
		Phone:       l.Profile.Phone,
		Service:     l.Profile.Service,
		Description: l.Profile.Description,
		Images:      images,
		Rating:      l.Profile.Rating,
		CreatedAt:   l.Identity.CreatedAt,
	}
	if withNationalID {
		resp.NationalID = l.Profile.NationalID
	}
	return resp
}

func toProviderList(listings []domain.ProviderListing, withNationalID bool) providerListResponse {
	out := make([]providerResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, toProviderResponse(l, withNationalID))
	}
	return providerListResponse{Providers: out}
}

func toBookingResponse(v *domain.BookingView) bookingResponse {
	b := v.Booking
	resp := bookingResponse{
		ID:             b.ID,
		UserID:         b.UserID,
		ProviderID:     b.ProviderID,
		Service:        b.Service,
		Location:       b.Location,
		Date:           b.Date,
		Time:           b.Time,
		UserStatus:     b.UserStatus,
		ProviderStatus: b.ProviderStatus,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
		User:           v.User,
	}
	if v.Provider != nil {
		p := toProviderResponse(*v.Provider, false)
		resp.Provider = &p
	}
	return resp
}

func toBookingList(views []domain.BookingView) bookingListResponse {
	out := make([]bookingResponse, 0, len(views))
	for i := range views {
		out = append(out, toBookingResponse(&views[i]))
	}
	return bookingListResponse{Bookings: out}
}

func toReportResponse(r domain.Report, reporter *domain.Summary) reportResponse {
	return reportResponse{
		ID:          r.ID,
		UserID:      r.ReporterID,
		Category:    r.Category,
		Urgency:     r.Urgency,
		Description: r.Description,
		ImagePath:   r.ImageRef,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
		Reporter:    reporter,
	}
}

func toReportList(views []domain.ReportView) reportListResponse {
	out := make([]reportResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toReportResponse(v.Report, v.Reporter))
	}
	return reportListResponse{Reports: out}
}
