package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"pkgconfirm/internal/confirm/handler/mocks"
	"pkgconfirm/internal/confirm/models"
	"pkgconfirm/internal/confirm/service"
	"pkgconfirm/pkg/domain"
	dErrors "pkgconfirm/pkg/domain-errors"
	"pkgconfirm/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/confirm-mocks.go -package=mocks Service
type ConfirmHandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  chi.Router
}

func TestConfirmHandlerSuite(t *testing.T) {
	suite.Run(t, new(ConfirmHandlerSuite))
}

func (s *ConfirmHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.T().Cleanup(ctrl.Finish)
	s.service = mocks.NewMockService(ctrl)
	h := New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.router = chi.NewRouter()
	h.Register(s.router)
}

func lockedSession() *models.Session {
	created := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	name := domain.PackageName("com.example.camera")
	return &models.Session{
		ID:           domain.NewSessionID(),
		PackageURI:   "file:///tmp/camera.yaml",
		DeclaredName: name,
		Candidate: models.PackageSnapshot{
			PackageName: name,
			Version:     "1.1.0",
			Permissions: models.NewPermissionSet(
				models.Permission{Name: "android.permission.CAMERA", Class: models.ClassDevice},
				models.Permission{Name: "android.permission.ACCESS_FINE_LOCATION", Class: models.ClassPersonal},
			),
		},
		Installed: &models.PackageSnapshot{PackageName: name, Version: "1.0.0"},
		Plan: models.ConfirmationPlan{
			IsUpdate:                true,
			HasNewPermissions:       true,
			HasPersonalPermissions:  true,
			HasDevicePermissions:    true,
			Summary:                 models.MessageUpdateWithPermissions,
			RequiresAcknowledgement: true,
			NewPermissions: models.NewPermissionSet(
				models.Permission{Name: "android.permission.ACCESS_FINE_LOCATION", Class: models.ClassPersonal},
			),
			Sections: []models.Section{models.SectionNewPermissions, models.SectionPersonal, models.SectionDevice},
		},
		VersionChange: models.VersionUpgrade,
		State:         models.GateLocked,
		CreatedAt:     created,
		UpdatedAt:     created,
		ExpiresAt:     created.Add(30 * time.Minute),
	}
}

func (s *ConfirmHandlerSuite) TestStart() {
	session := lockedSession()
	s.service.EXPECT().Start(gomock.Any(), "file:///tmp/camera.yaml").Return(session, nil)

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/confirmations", StartRequest{PackageURI: " file:///tmp/camera.yaml "})
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	resp := testutil.UnmarshalResponse[SessionResponse](s.T(), rr)
	s.Equal(session.ID.String(), resp.ID)
	s.Equal("locked", resp.State)
	s.Equal("next", resp.ActionLabel)
	s.Equal("update_with_permissions", resp.Summary)
	s.Equal([]string{"new_permissions", "personal", "device"}, resp.Sections)
	s.Equal([]string{"android.permission.ACCESS_FINE_LOCATION"}, resp.NewPermissions)
	s.Equal([]string{"android.permission.CAMERA"}, resp.DevicePermissions)
	s.Equal("1.0.0", resp.InstalledVersion)
	s.Equal("upgrade", resp.VersionChange)
}

func (s *ConfirmHandlerSuite) TestStart_MissingURI() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/confirmations", StartRequest{})
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
}

func (s *ConfirmHandlerSuite) TestStart_MalformedBody() {
	req := testutil.NewRawJSONRequest(s.T(), http.MethodPost, "/confirmations", "{")
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
}

func (s *ConfirmHandlerSuite) TestStart_ResolutionFailed() {
	s.service.EXPECT().Start(gomock.Any(), "file:///tmp/broken.yaml").
		Return(nil, dErrors.New(dErrors.CodeResolutionFailed, "package could not be resolved"))

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/confirmations", StartRequest{PackageURI: "file:///tmp/broken.yaml"})
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatusAndError(s.T(), rr, http.StatusUnprocessableEntity, "resolution_failed")
}

func (s *ConfirmHandlerSuite) TestGet_InvalidID() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/confirmations/not-a-uuid"))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")
}

func (s *ConfirmHandlerSuite) TestGet_NotFound() {
	id := domain.NewSessionID()
	s.service.EXPECT().Get(gomock.Any(), id).Return(nil, dErrors.New(dErrors.CodeNotFound, "confirmation not found"))

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/confirmations/"+id.String()))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
}

func (s *ConfirmHandlerSuite) TestAcknowledge() {
	session := lockedSession()
	enabledAt := session.CreatedAt.Add(time.Minute)
	session.State = models.GateUnlocked
	session.EnabledAt = &enabledAt
	s.service.EXPECT().Acknowledge(gomock.Any(), session.ID).Return(session, nil)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodPost, "/confirmations/"+session.ID.String()+"/acknowledge"))
	testutil.AssertStatusOK(s.T(), rr)
	resp := testutil.UnmarshalResponse[SessionResponse](s.T(), rr)
	s.Equal("unlocked", resp.State)
	s.Equal("install", resp.ActionLabel)
	s.Require().NotNil(resp.EnabledAt)
}

func (s *ConfirmHandlerSuite) TestProceed_RequiresAcknowledgement() {
	session := lockedSession()
	s.service.EXPECT().Proceed(gomock.Any(), session.ID).Return(&service.ProceedResult{
		Session:  session,
		Decision: models.DecisionRequiresAcknowledgement,
		ScrollTo: models.SectionNewPermissions,
	}, nil)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodPost, "/confirmations/"+session.ID.String()+"/proceed"))
	testutil.AssertStatus(s.T(), rr, http.StatusAccepted)
	resp := testutil.UnmarshalResponse[ProceedResponse](s.T(), rr)
	s.Equal("requires_acknowledgement", resp.Decision)
	s.Equal("new_permissions", resp.ScrollTo)
}

func (s *ConfirmHandlerSuite) TestProceed_Proceeds() {
	session := lockedSession()
	session.State = models.GateUnlocked
	session.Outcome = models.OutcomeProceed
	s.service.EXPECT().Proceed(gomock.Any(), session.ID).Return(&service.ProceedResult{
		Session:  session,
		Decision: models.DecisionProceed,
	}, nil)

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodPost, "/confirmations/"+session.ID.String()+"/proceed"))
	testutil.AssertStatusOK(s.T(), rr)
	resp := testutil.UnmarshalResponse[ProceedResponse](s.T(), rr)
	s.Equal("proceed", resp.Decision)
	s.Empty(resp.ScrollTo)
	s.Equal("proceed", resp.Session.Outcome)
}

func (s *ConfirmHandlerSuite) TestCancel_AfterProceedConflict() {
	id := domain.NewSessionID()
	s.service.EXPECT().Cancel(gomock.Any(), id).
		Return(nil, dErrors.New(dErrors.CodeInvalidState, "confirmation already finished"))

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodPost, "/confirmations/"+id.String()+"/cancel"))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "invalid_state")
}

func (s *ConfirmHandlerSuite) TestInternalErrorHidesDetail() {
	id := domain.NewSessionID()
	s.service.EXPECT().Cancel(gomock.Any(), id).
		Return(nil, dErrors.New(dErrors.CodeInternal, "redis: connection refused"))

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodPost, "/confirmations/"+id.String()+"/cancel"))
	testutil.AssertStatus(s.T(), rr, http.StatusInternalServerError)
	body := testutil.UnmarshalErrorResponse(s.T(), rr)
	s.Equal("internal_error", body["error"])
	s.NotContains(body, "error_description")
}
