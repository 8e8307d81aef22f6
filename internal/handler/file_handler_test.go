package handler

import (
	"net/http"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"school-service/internal/model"
)

func TestUploadURLForTenantUser(t *testing.T) {
	e, db := newTestServer(t)
	schoolID := seedSchool(t, db, "hillcrest")
	token := seedUser(t, db, model.RoleTeacher, &schoolID)

	rec := doRequest(t, e, http.MethodPost, "/api/v1/files/upload-url", token,
		`{"file_type":"profile_photos","original_file_name":"me.png"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)

	fullPath, _ := body["full_path"].(string)
	assert.Regexp(t, regexp.MustCompile(`^school_uploads/`+schoolID+`/profile_photos/[0-9a-f-]{36}\.png$`), fullPath)
	assert.Contains(t, body["signed_url"], fullPath)
}

func TestUploadURLForeignSchoolRejected(t *testing.T) {
	e, db := newTestServer(t)
	s1 := seedSchool(t, db, "hillcrest")
	s2 := seedSchool(t, db, "riverside")
	token := seedUser(t, db, model.RoleTeacher, &s1)

	rec := doRequest(t, e, http.MethodPost, "/api/v1/files/upload-url", token,
		`{"file_type":"reports","original_file_name":"term.pdf","school_id":"`+s2+`"}`)

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "TENANT_MISMATCH", decodeError(t, rec).Code)
}

func TestUploadURLPlatformUserTargetsAnySchool(t *testing.T) {
	e, db := newTestServer(t)
	s2 := seedSchool(t, db, "riverside")
	token := seedUser(t, db, model.RoleSuperAdmin, nil)

	rec := doRequest(t, e, http.MethodPost, "/api/v1/files/upload-url", token,
		`{"file_type":"reports","original_file_name":"audit.pdf","school_id":"`+s2+`"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	fullPath, _ := decodeBody(t, rec)["full_path"].(string)
	assert.Contains(t, fullPath, "school_uploads/"+s2+"/reports/")
}

func TestUploadURLPlatformUserWithoutSchool(t *testing.T) {
	e, db := newTestServer(t)
	token := seedUser(t, db, model.RoleSuperAdmin, nil)

	rec := doRequest(t, e, http.MethodPost, "/api/v1/files/upload-url", token,
		`{"file_type":"reports","original_file_name":"audit.pdf"}`)

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "TENANT_REQUIRED", decodeError(t, rec).Code)
}

func TestUploadURLRoleDenied(t *testing.T) {
	e, db := newTestServer(t)
	schoolID := seedSchool(t, db, "hillcrest")

	for _, role := range []model.Role{model.RoleStudentUser, model.RoleSubscriber, model.RoleSchoolFinanceManager} {
		token := seedUser(t, db, role, &schoolID)
		rec := doRequest(t, e, http.MethodPost, "/api/v1/files/upload-url", token,
			`{"file_type":"reports","original_file_name":"term.pdf"}`)
		require.Equal(t, http.StatusForbidden, rec.Code, "role %s", role)
		assert.Equal(t, "ROLE_FORBIDDEN", decodeError(t, rec).Code)
	}
}

func TestUploadURLInvalidFileType(t *testing.T) {
	e, db := newTestServer(t)
	schoolID := seedSchool(t, db, "hillcrest")
	token := seedUser(t, db, model.RoleTeacher, &schoolID)

	rec := doRequest(t, e, http.MethodPost, "/api/v1/files/upload-url", token,
		`{"file_type":"secrets","original_file_name":"dump.sql"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_FAILED", decodeError(t, rec).Code)
}

func TestUploadURLMissingExtension(t *testing.T) {
	e, db := newTestServer(t)
	schoolID := seedSchool(t, db, "hillcrest")
	token := seedUser(t, db, model.RoleTeacher, &schoolID)

	rec := doRequest(t, e, http.MethodPost, "/api/v1/files/upload-url", token,
		`{"file_type":"reports","original_file_name":"README"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", decodeError(t, rec).Code)
}

func TestPublicURL(t *testing.T) {
	e, db := newTestServer(t)
	schoolID := seedSchool(t, db, "hillcrest")
	token := seedUser(t, db, model.RoleStudentUser, &schoolID)

	rec := doRequest(t, e, http.MethodGet,
		"/api/v1/files/public-url?file_path=school_uploads/S1/reports/x.pdf", token, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		"https://storage.example.com/school-assets/school_uploads/S1/reports/x.pdf",
		decodeBody(t, rec)["public_url"])
}

func TestPublicURLMissingPath(t *testing.T) {
	e, db := newTestServer(t)
	schoolID := seedSchool(t, db, "hillcrest")
	token := seedUser(t, db, model.RoleParent, &schoolID)

	rec := doRequest(t, e, http.MethodGet, "/api/v1/files/public-url", token, "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", decodeError(t, rec).Code)
}
