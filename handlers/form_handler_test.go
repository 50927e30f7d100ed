package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/coforge-registration/controllers"
	"github.com/Dosada05/coforge-registration/models"
	"github.com/Dosada05/coforge-registration/repositories"
	"github.com/Dosada05/coforge-registration/services"
)

const testLogo = "https://pub-abc.r2.dev/CYBRIAN.jpg"

func newFormHandler(t *testing.T, store repositories.DataStore) *FormHandler {
	t.Helper()
	h, err := NewFormHandler(services.NewRegistrationService(store, nil), PageOptions{
		LogoURL:         testLogo,
		LogoFallbackURL: "https://placehold.co/96x96",
	}, nil)
	require.NoError(t, err)
	return h
}

func validPost(community string) url.Values {
	return url.Values{
		"form_token":            {uuid.NewString()},
		"leader_name":           {"Asha"},
		"leader_college":        {"GEC"},
		"leader_phone":          {"9000000001"},
		"leader_email":          {"asha@example.com"},
		"co_leader_name":        {"Ravi"},
		"co_leader_college":     {"NIT"},
		"co_leader_phone":       {"9000000002"},
		"co_leader_email":       {"ravi@example.com"},
		"community":             {community},
		"source":                {"LinkedIn"},
		"eligibility_confirmed": {"on"},
	}
}

func post(t *testing.T, h *FormHandler, form url.Values) (*httptest.ResponseRecorder, *goquery.Document) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.SubmitForm(rec, req)

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	return rec, doc
}

func inputValue(doc *goquery.Document, name string) string {
	v, _ := doc.Find(`input[name="` + name + `"]`).Attr("value")
	return v
}

func TestShowForm(t *testing.T) {
	h := newFormHandler(t, repositories.NewMemoryStore())
	rec := httptest.NewRecorder()
	h.ShowForm(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)

	assert.Equal(t, PageTitle, doc.Find("title").Text())
	src, _ := doc.Find("header img").Attr("src")
	assert.Equal(t, testLogo, src)

	communities := doc.Find(`select[name="community"] option:not([disabled])`)
	assert.Equal(t, len(models.Communities), communities.Length())
	assert.Equal(t, models.CommunityOther, communities.Last().Text())
	assert.Equal(t, len(models.Sources), doc.Find(`select[name="source"] option:not([disabled])`).Length())

	_, hidden := doc.Find("#community-other").Attr("hidden")
	assert.True(t, hidden)
	_, bannerHidden := doc.Find("#banner").Attr("hidden")
	assert.True(t, bannerHidden)

	_, err = uuid.Parse(inputValue(doc, "form_token"))
	assert.NoError(t, err)
}

func TestSubmitForm_Success(t *testing.T) {
	store := repositories.NewMemoryStore()
	h := newFormHandler(t, store)
	form := validPost("Codesapiens")

	rec, doc := post(t, h, form)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, controllers.SuccessMessage, strings.TrimSpace(doc.Find("#banner").Text()))
	assert.True(t, doc.Find("#banner").HasClass("banner-success"))
	assert.Empty(t, inputValue(doc, "leader_name"))
	assert.NotEqual(t, form.Get("form_token"), inputValue(doc, "form_token"))

	rows := store.Rows(models.RegistrationsTable)
	require.Len(t, rows, 1)
	assert.Equal(t, "Asha", rows[0].LeaderName)
	assert.Equal(t, "LinkedIn", rows[0].Source)
	assert.True(t, rows[0].EligibilityConfirmed)
	assert.Nil(t, rows[0].CommunityOther)
}

func TestSubmitForm_EligibilityMissingPreservesInput(t *testing.T) {
	store := repositories.NewMemoryStore()
	h := newFormHandler(t, store)
	form := validPost("Rootsprout")
	form.Del("eligibility_confirmed")

	rec, doc := post(t, h, form)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, controllers.ValidationErrorMessage, strings.TrimSpace(doc.Find("#banner").Text()))
	assert.True(t, doc.Find("#banner").HasClass("banner-error"))
	assert.Equal(t, "Asha", inputValue(doc, "leader_name"))
	assert.Equal(t, "ravi@example.com", inputValue(doc, "co_leader_email"))
	selected, _ := doc.Find(`select[name="community"] option[selected]`).Attr("value")
	assert.Equal(t, "Rootsprout", selected)
	assert.Equal(t, form.Get("form_token"), inputValue(doc, "form_token"))
	assert.Equal(t, 0, store.Calls())
}

func TestSubmitForm_OtherCommunity(t *testing.T) {
	store := repositories.NewMemoryStore()
	h := newFormHandler(t, store)

	form := validPost(models.CommunityOther)
	_, doc := post(t, h, form)
	assert.Equal(t, controllers.ValidationErrorMessage, strings.TrimSpace(doc.Find("#banner").Text()))
	_, hidden := doc.Find("#community-other").Attr("hidden")
	assert.False(t, hidden)
	assert.Equal(t, 0, store.Calls())

	form.Set("community_other", "Hack Club")
	_, doc = post(t, h, form)
	assert.Equal(t, controllers.SuccessMessage, strings.TrimSpace(doc.Find("#banner").Text()))

	rows := store.Rows(models.RegistrationsTable)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].CommunityOther)
	assert.Equal(t, "Hack Club", *rows[0].CommunityOther)
}

func TestSubmitForm_StaleOtherTextIsDropped(t *testing.T) {
	store := repositories.NewMemoryStore()
	h := newFormHandler(t, store)
	form := validPost("Cybrian")
	form.Set("community_other", "left over from a previous choice")

	post(t, h, form)

	rows := store.Rows(models.RegistrationsTable)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].CommunityOther)
}

func TestSubmitForm_StoreNotReady(t *testing.T) {
	store := repositories.NewUnreadyMemoryStore()
	h := newFormHandler(t, store)

	_, doc := post(t, h, validPost("Cybrian"))

	assert.Equal(t, controllers.ConfigErrorMessage, strings.TrimSpace(doc.Find("#banner").Text()))
	assert.Equal(t, 0, store.Calls())
}

func TestSubmitForm_StoreError(t *testing.T) {
	store := repositories.NewMemoryStore()
	store.FailWith(&repositories.StoreError{StatusCode: 401, Message: "new row violates row-level security policy for table \"registrations\""})
	h := newFormHandler(t, store)

	_, doc := post(t, h, validPost("Ai geeks"))

	assert.Equal(t,
		controllers.PersistenceFailurePrefix+`new row violates row-level security policy for table "registrations"`,
		strings.TrimSpace(doc.Find("#banner").Text()))
	assert.Equal(t, "Asha", inputValue(doc, "leader_name"))
}

func TestSubmitForm_RejectsTokenInFlight(t *testing.T) {
	store := repositories.NewMemoryStore()
	h := newFormHandler(t, store)
	form := validPost("Flutterflow")
	require.NoError(t, h.inflight.Add(form.Get("form_token"), struct{}{}, cache.DefaultExpiration))

	rec, doc := post(t, h, form)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, BusyMessage, strings.TrimSpace(doc.Find("#banner").Text()))
	assert.Equal(t, "Asha", inputValue(doc, "leader_name"))
	assert.Equal(t, 0, store.Calls())
}

func TestSubmitForm_ReleasesTokenAfterFailure(t *testing.T) {
	store := repositories.NewMemoryStore()
	store.FailWith(&repositories.StoreError{Message: "timeout"})
	h := newFormHandler(t, store)
	form := validPost("Flutterflow")

	post(t, h, form)
	_, found := h.inflight.Get(form.Get("form_token"))
	assert.False(t, found)

	store.FailWith(nil)
	_, doc := post(t, h, form)
	assert.Equal(t, controllers.SuccessMessage, strings.TrimSpace(doc.Find("#banner").Text()))
}

func TestSubmitForm_InvalidTokenGetsReplaced(t *testing.T) {
	h := newFormHandler(t, repositories.NewMemoryStore())
	form := validPost("Cybrian")
	form.Set("form_token", "<script>")
	form.Del("eligibility_confirmed")

	_, doc := post(t, h, form)

	_, err := uuid.Parse(inputValue(doc, "form_token"))
	assert.NoError(t, err)
}
