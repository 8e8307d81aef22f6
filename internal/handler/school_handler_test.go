package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"school-service/internal/model"
)

func TestCreateStudentAsEditor(t *testing.T) {
	e, db := newTestServer(t)
	schoolID := seedSchool(t, db, "hillcrest")
	token := seedUser(t, db, model.RoleSchoolDataEditor, &schoolID)

	rec := doRequest(t, e, http.MethodPost, "/api/v1/schools/my/students", token,
		`{"first_name":"Ana","last_name":"Li","allergies":["peanuts"]}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, "Ana", body["first_name"])
	assert.Equal(t, schoolID, body["school_id"])
	assert.NotEmpty(t, body["id"])
}

func TestCreateStudentAsParentForbidden(t *testing.T) {
	e, db := newTestServer(t)
	schoolID := seedSchool(t, db, "hillcrest")
	token := seedUser(t, db, model.RoleParent, &schoolID)

	rec := doRequest(t, e, http.MethodPost, "/api/v1/schools/my/students", token,
		`{"first_name":"Ana","last_name":"Li"}`)

	require.Equal(t, http.StatusForbidden, rec.Code)
	env := decodeError(t, rec)
	assert.Equal(t, "ROLE_FORBIDDEN", env.Code)
	assert.Contains(t, env.Message, "Parent")
}

func TestCreateStudentValidationFailure(t *testing.T) {
	e, db := newTestServer(t)
	schoolID := seedSchool(t, db, "hillcrest")
	token := seedUser(t, db, model.RoleSchoolAdmin, &schoolID)

	rec := doRequest(t, e, http.MethodPost, "/api/v1/schools/my/students", token,
		`{"last_name":"","profile_photo_url":"not a url"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_FAILED", env.Code)

	details, ok := env.Details.([]any)
	require.True(t, ok)
	assert.Len(t, details, 3)
}

func TestCreateStudentIgnoresBodySchoolOverride(t *testing.T) {
	e, db := newTestServer(t)
	schoolID := seedSchool(t, db, "hillcrest")
	token := seedUser(t, db, model.RoleSchoolAdmin, &schoolID)

	// Naming the caller's own school in the body passes the gate and the
	// record still lands under the principal's school.
	rec := doRequest(t, e, http.MethodPost, "/api/v1/schools/my/students", token,
		`{"first_name":"Ana","last_name":"Li","school_id":"`+schoolID+`"}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, schoolID, decodeBody(t, rec)["school_id"])
}

func TestCreateStudentForeignSchoolInBodyRejected(t *testing.T) {
	e, db := newTestServer(t)
	schoolID := seedSchool(t, db, "hillcrest")
	otherID := seedSchool(t, db, "riverside")
	token := seedUser(t, db, model.RoleSchoolAdmin, &schoolID)

	rec := doRequest(t, e, http.MethodPost, "/api/v1/schools/my/students", token,
		`{"first_name":"Ana","last_name":"Li","school_id":"`+otherID+`"}`)

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "TENANT_MISMATCH", decodeError(t, rec).Code)
}

func TestStudentRoutesRejectPlatformRolesBeforeTenantCheck(t *testing.T) {
	e, db := newTestServer(t)

	// A platform principal has no school, but the role gate must answer
	// first: the rejection is about the allow-list, not tenant association.
	for _, role := range []model.Role{model.RoleSuperAdmin, model.RoleAppManagerSupport} {
		token := seedUser(t, db, role, nil)

		rec := doRequest(t, e, http.MethodGet, "/api/v1/schools/my/students", token, "")
		require.Equal(t, http.StatusForbidden, rec.Code, "role %s", role)
		assert.Equal(t, "ROLE_FORBIDDEN", decodeError(t, rec).Code, "role %s", role)

		rec = doRequest(t, e, http.MethodPost, "/api/v1/schools/my/students", token,
			`{"first_name":"Ana","last_name":"Li"}`)
		require.Equal(t, http.StatusForbidden, rec.Code, "role %s", role)
		assert.Equal(t, "ROLE_FORBIDDEN", decodeError(t, rec).Code, "role %s", role)
	}
}

func TestStudentRequestWithoutToken(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doRequest(t, e, http.MethodGet, "/api/v1/schools/my/students", "", "")

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "AUTH_REQUIRED", decodeError(t, rec).Code)
}

func TestListStudentsScopedToOwnSchool(t *testing.T) {
	e, db := newTestServer(t)
	s1 := seedSchool(t, db, "hillcrest")
	s2 := seedSchool(t, db, "riverside")
	require.NoError(t, db.Create(&model.Student{SchoolID: s1, FirstName: "Ana", LastName: "Li"}).Error)
	require.NoError(t, db.Create(&model.Student{SchoolID: s2, FirstName: "Cam", LastName: "Do"}).Error)

	token := seedUser(t, db, model.RoleTeacher, &s1)
	rec := doRequest(t, e, http.MethodGet, "/api/v1/schools/my/students", token, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ana")
	assert.NotContains(t, rec.Body.String(), "Cam")
}

func TestDeleteStudentCrossTenantNotFound(t *testing.T) {
	e, db := newTestServer(t)
	s1 := seedSchool(t, db, "hillcrest")
	s2 := seedSchool(t, db, "riverside")

	victim := model.Student{SchoolID: s2, FirstName: "Cam", LastName: "Do"}
	require.NoError(t, db.Create(&victim).Error)

	token := seedUser(t, db, model.RoleSchoolAdmin, &s1)
	rec := doRequest(t, e, http.MethodDelete, "/api/v1/schools/my/students/"+victim.ID, token, "")

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "STUDENT_NOT_FOUND", decodeError(t, rec).Code)

	var count int64
	require.NoError(t, db.Model(&model.Student{}).Where("id = ?", victim.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestDeleteStudentRequiresSchoolAdmin(t *testing.T) {
	e, db := newTestServer(t)
	s1 := seedSchool(t, db, "hillcrest")

	student := model.Student{SchoolID: s1, FirstName: "Ana", LastName: "Li"}
	require.NoError(t, db.Create(&student).Error)

	editorToken := seedUser(t, db, model.RoleSchoolDataEditor, &s1)
	rec := doRequest(t, e, http.MethodDelete, "/api/v1/schools/my/students/"+student.ID, editorToken, "")
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "ROLE_FORBIDDEN", decodeError(t, rec).Code)

	adminToken := seedUser(t, db, model.RoleSchoolAdmin, &s1)
	rec = doRequest(t, e, http.MethodDelete, "/api/v1/schools/my/students/"+student.ID, adminToken, "")
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestUpdateStudentPartial(t *testing.T) {
	e, db := newTestServer(t)
	s1 := seedSchool(t, db, "hillcrest")

	student := model.Student{SchoolID: s1, FirstName: "Ana", LastName: "Li"}
	require.NoError(t, db.Create(&student).Error)

	token := seedUser(t, db, model.RoleSchoolDataEditor, &s1)
	rec := doRequest(t, e, http.MethodPut, "/api/v1/schools/my/students/"+student.ID, token,
		`{"class_name":"3B"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, "3B", body["class_name"])
	assert.Equal(t, "Ana", body["first_name"])
}

func TestGuardianLifecycle(t *testing.T) {
	e, db := newTestServer(t)
	s1 := seedSchool(t, db, "hillcrest")

	student := model.Student{SchoolID: s1, FirstName: "Ana", LastName: "Li"}
	require.NoError(t, db.Create(&student).Error)

	editorToken := seedUser(t, db, model.RoleSchoolDataEditor, &s1)
	base := "/api/v1/schools/my/students/" + student.ID + "/guardians"

	rec := doRequest(t, e, http.MethodPost, base, editorToken,
		`{"name":"Mia Li","relation":"Mother","email":"mia@example.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	guardianID, _ := decodeBody(t, rec)["id"].(string)
	require.NotEmpty(t, guardianID)

	rec = doRequest(t, e, http.MethodGet, base+"/"+guardianID, editorToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Mia Li", decodeBody(t, rec)["name"])

	rec = doRequest(t, e, http.MethodPut, base+"/"+guardianID, editorToken,
		`{"phone_number":"+15550100"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "+15550100", decodeBody(t, rec)["phone_number"])

	adminToken := seedUser(t, db, model.RoleSchoolAdmin, &s1)
	rec = doRequest(t, e, http.MethodDelete, base+"/"+guardianID, adminToken, "")
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestGuardianUnderForeignStudentNotFound(t *testing.T) {
	e, db := newTestServer(t)
	s1 := seedSchool(t, db, "hillcrest")
	s2 := seedSchool(t, db, "riverside")

	foreign := model.Student{SchoolID: s2, FirstName: "Cam", LastName: "Do"}
	require.NoError(t, db.Create(&foreign).Error)

	token := seedUser(t, db, model.RoleSchoolDataEditor, &s1)
	rec := doRequest(t, e, http.MethodPost,
		"/api/v1/schools/my/students/"+foreign.ID+"/guardians", token,
		`{"name":"Mia Li"}`)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "STUDENT_NOT_FOUND", decodeError(t, rec).Code)
}
