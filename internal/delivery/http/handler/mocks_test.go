package handler

import (
	"context"
	"estate-brokerage/internal/usecase/catalog"
	"estate-brokerage/internal/usecase/contact"
	"estate-brokerage/internal/usecase/property"
	"estate-brokerage/internal/usecase/user"
	"estate-brokerage/pkg/utils"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Register(ctx context.Context, req *user.RegisterRequest, image *utils.Image) (*user.RegisterResponse, error) {
	args := m.Called(ctx, req, image)
	if resp := args.Get(0); resp != nil {
		return resp.(*user.RegisterResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthService) VerifyOTP(ctx context.Context, req *user.VerifyOTPRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockAuthService) VerifyEmailToken(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockAuthService) ResendVerification(ctx context.Context, req *user.ResendVerificationRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockAuthService) Signin(ctx context.Context, req *user.SigninRequest) (*user.SigninResponse, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*user.SigninResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthService) FederatedSignin(ctx context.Context, req *user.FederatedSigninRequest) (*user.FederatedSigninResponse, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*user.FederatedSigninResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthService) RefreshAccessToken(ctx context.Context, req *user.RefreshTokenRequest) (*user.RefreshTokenResponse, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*user.RefreshTokenResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthService) Signout(ctx context.Context, userID uuid.UUID, req *user.SignoutRequest) error {
	return m.Called(ctx, userID, req).Error(0)
}

func (m *mockAuthService) ForgotPassword(ctx context.Context, req *user.ForgotPasswordRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockAuthService) ResetPassword(ctx context.Context, req *user.ResetPasswordRequest) error {
	return m.Called(ctx, req).Error(0)
}

type mockProfileService struct {
	mock.Mock
}

func (m *mockProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*user.UserResponse, error) {
	args := m.Called(ctx, userID)
	if resp := args.Get(0); resp != nil {
		return resp.(*user.UserResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProfileService) ListUsers(ctx context.Context) (*user.UserListResponse, error) {
	args := m.Called(ctx)
	if resp := args.Get(0); resp != nil {
		return resp.(*user.UserListResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProfileService) OpenProfilePicture(ctx context.Context, name string) (io.ReadCloser, string, error) {
	args := m.Called(ctx, name)
	if body := args.Get(0); body != nil {
		return body.(io.ReadCloser), args.String(1), args.Error(2)
	}
	return nil, args.String(1), args.Error(2)
}

type mockPropertyService struct {
	mock.Mock
}

func (m *mockPropertyService) MaxImages() int {
	return m.Called().Int(0)
}

func (m *mockPropertyService) List(ctx context.Context, q *property.ListQuery) (*property.PropertyPage, error) {
	args := m.Called(ctx, q)
	if resp := args.Get(0); resp != nil {
		return resp.(*property.PropertyPage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPropertyService) Get(ctx context.Context, id uuid.UUID) (*property.PropertyResponse, error) {
	args := m.Called(ctx, id)
	if resp := args.Get(0); resp != nil {
		return resp.(*property.PropertyResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPropertyService) Create(ctx context.Context, adminID uuid.UUID, req *property.PropertyRequest, images []*utils.Image) (*property.PropertyResponse, error) {
	args := m.Called(ctx, adminID, req, images)
	if resp := args.Get(0); resp != nil {
		return resp.(*property.PropertyResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPropertyService) Update(ctx context.Context, adminID, id uuid.UUID, req *property.PropertyRequest, images []*utils.Image) (*property.PropertyResponse, error) {
	args := m.Called(ctx, adminID, id, req, images)
	if resp := args.Get(0); resp != nil {
		return resp.(*property.PropertyResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPropertyService) Delete(ctx context.Context, adminID, id uuid.UUID) error {
	return m.Called(ctx, adminID, id).Error(0)
}

func (m *mockPropertyService) SetDiscount(ctx context.Context, adminID, id uuid.UUID, req *property.DiscountRequest) error {
	return m.Called(ctx, adminID, id, req).Error(0)
}

func (m *mockPropertyService) OpenImage(ctx context.Context, name string) (io.ReadCloser, string, error) {
	args := m.Called(ctx, name)
	if body := args.Get(0); body != nil {
		return body.(io.ReadCloser), args.String(1), args.Error(2)
	}
	return nil, args.String(1), args.Error(2)
}

func (m *mockPropertyService) CreateInquiry(ctx context.Context, req *property.InquiryRequest, userID *uuid.UUID) (*property.InquiryCreatedResponse, error) {
	args := m.Called(ctx, req, userID)
	if resp := args.Get(0); resp != nil {
		return resp.(*property.InquiryCreatedResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPropertyService) ListInquiries(ctx context.Context, q *property.InquiryListQuery) ([]*property.InquiryResponse, error) {
	args := m.Called(ctx, q)
	if resp := args.Get(0); resp != nil {
		return resp.([]*property.InquiryResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPropertyService) GetInquiry(ctx context.Context, id uuid.UUID) (*property.InquiryResponse, error) {
	args := m.Called(ctx, id)
	if resp := args.Get(0); resp != nil {
		return resp.(*property.InquiryResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPropertyService) UpdateInquiryStatus(ctx context.Context, id uuid.UUID, req *property.InquiryStatusRequest) (*property.InquiryResponse, error) {
	args := m.Called(ctx, id, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*property.InquiryResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPropertyService) DeleteInquiry(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockCatalogService struct {
	mock.Mock
}

func (m *mockCatalogService) ListOfferings(ctx context.Context, q *catalog.OfferingListQuery) ([]*catalog.OfferingResponse, error) {
	args := m.Called(ctx, q)
	if resp := args.Get(0); resp != nil {
		return resp.([]*catalog.OfferingResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCatalogService) GetOffering(ctx context.Context, id uuid.UUID) (*catalog.OfferingResponse, error) {
	args := m.Called(ctx, id)
	if resp := args.Get(0); resp != nil {
		return resp.(*catalog.OfferingResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCatalogService) CreateOffering(ctx context.Context, req *catalog.OfferingRequest) (*catalog.OfferingResponse, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*catalog.OfferingResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCatalogService) UpdateOffering(ctx context.Context, id uuid.UUID, req *catalog.OfferingRequest) (*catalog.OfferingResponse, error) {
	args := m.Called(ctx, id, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*catalog.OfferingResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCatalogService) DeleteOffering(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCatalogService) ToggleAvailability(ctx context.Context, id uuid.UUID) (*catalog.OfferingResponse, error) {
	args := m.Called(ctx, id)
	if resp := args.Get(0); resp != nil {
		return resp.(*catalog.OfferingResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCatalogService) CreateBooking(ctx context.Context, req *catalog.BookingRequest) (*catalog.BookingResponse, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*catalog.BookingResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCatalogService) ListBookings(ctx context.Context, q *catalog.BookingListQuery) ([]*catalog.BookingResponse, error) {
	args := m.Called(ctx, q)
	if resp := args.Get(0); resp != nil {
		return resp.([]*catalog.BookingResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCatalogService) GetBooking(ctx context.Context, reference string) (*catalog.BookingResponse, error) {
	args := m.Called(ctx, reference)
	if resp := args.Get(0); resp != nil {
		return resp.(*catalog.BookingResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCatalogService) UpdateBookingStatus(ctx context.Context, reference string, req *catalog.BookingStatusRequest) (*catalog.BookingResponse, error) {
	args := m.Called(ctx, reference, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*catalog.BookingResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCatalogService) CancelBooking(ctx context.Context, reference string) (*catalog.BookingResponse, error) {
	args := m.Called(ctx, reference)
	if resp := args.Get(0); resp != nil {
		return resp.(*catalog.BookingResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockContactService struct {
	mock.Mock
}

func (m *mockContactService) Submit(ctx context.Context, req *contact.MessageRequest) (*contact.MessageResponse, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*contact.MessageResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockContactService) List(ctx context.Context, q *contact.ListQuery) ([]*contact.MessageResponse, error) {
	args := m.Called(ctx, q)
	if resp := args.Get(0); resp != nil {
		return resp.([]*contact.MessageResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockContactService) Get(ctx context.Context, reference string) (*contact.MessageResponse, error) {
	args := m.Called(ctx, reference)
	if resp := args.Get(0); resp != nil {
		return resp.(*contact.MessageResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockContactService) UpdateStatus(ctx context.Context, reference string, req *contact.StatusRequest) (*contact.MessageResponse, error) {
	args := m.Called(ctx, reference, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*contact.MessageResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockContactService) Delete(ctx context.Context, reference string) error {
	return m.Called(ctx, reference).Error(0)
}
