//go:build integration

package integration

import (
	"net/http"
	"testing"
	"time"

	"github.com/hastkala/marketplace/internal/auth"
	"github.com/hastkala/marketplace/internal/domain"
	"github.com/hastkala/marketplace/internal/identity"
	identitypostgres "github.com/hastkala/marketplace/internal/identity/postgres"
	"github.com/hastkala/marketplace/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	client := newTestClient(t)
	email := testutil.RandomEmail()

	resp, err := client.POST(apiBase+"/auth/register", map[string]interface{}{
		"name":     "Meera Devi",
		"email":    email,
		"password": "handloom-secret",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode, testutil.ReadBody(t, resp))

	var registered struct {
		Success bool `json:"success"`
		Data    struct {
			User struct {
				ID    string `json:"id"`
				Email string `json:"email"`
			} `json:"user"`
			Token string `json:"token"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &registered)
	assert.True(t, registered.Success)
	assert.Equal(t, email, registered.Data.User.Email)
	assert.NotEmpty(t, registered.Data.Token)

	resp, err = client.POST(apiBase+"/auth/login", map[string]interface{}{
		"email":    email,
		"password": "handloom-secret",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, testutil.ReadBody(t, resp))

	var loggedIn struct {
		Data struct {
			User struct {
				ID string `json:"id"`
			} `json:"user"`
			Token string `json:"token"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &loggedIn)
	assert.Equal(t, registered.Data.User.ID, loggedIn.Data.User.ID)
	assert.NotEmpty(t, loggedIn.Data.Token)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	client := newTestClient(t)
	email := testutil.RandomEmail()

	resp, err := client.POST(apiBase+"/auth/register", map[string]interface{}{
		"name":     "First",
		"email":    email,
		"password": "first-password",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp, err = client.POST(apiBase+"/auth/register", map[string]interface{}{
		"name":     "Second",
		"email":    email,
		"password": "second-password",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, testutil.ReadBody(t, resp))
}

func TestRegisterValidation(t *testing.T) {
	client := newTestClient(t)

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing name", map[string]interface{}{"email": testutil.RandomEmail(), "password": "long-enough"}},
		{"invalid email", map[string]interface{}{"name": "X", "email": "not-an-email", "password": "long-enough"}},
		{"short password", map[string]interface{}{"name": "X", "email": testutil.RandomEmail(), "password": "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := client.POST(apiBase+"/auth/register", tt.body)
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, testutil.ReadBody(t, resp))
		})
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	authed, _ := registerArtisan(t)
	client := newTestClient(t)

	var email string
	resp, err := authed.GET(apiBase + "/auth/profile")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var profile struct {
		Data struct {
			Email string `json:"email"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &profile)
	email = profile.Data.Email

	resp, err = client.POST(apiBase+"/auth/login", map[string]interface{}{
		"email":    email,
		"password": "wrong-password-entirely",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, testutil.ReadBody(t, resp))

	resp, err = client.POST(apiBase+"/auth/login", map[string]interface{}{
		"email":    "nobody@example.com",
		"password": "wrong-password-entirely",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, testutil.ReadBody(t, resp))
}

func TestProfileRequiresAuth(t *testing.T) {
	client := newTestClient(t)

	resp, err := client.GET(apiBase + "/auth/profile")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, testutil.ReadBody(t, resp))

	resp, err = client.WithToken("not-a-real-token").GET(apiBase + "/auth/profile")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, testutil.ReadBody(t, resp))
}

func TestExpiredTokenRejected(t *testing.T) {
	_, artisanID := registerArtisan(t)

	// Mint a token that expires almost immediately, for a real account.
	tokens, err := auth.NewTokenService(auth.TokenConfig{
		Secret: "test-secret-key",
		TTL:    time.Millisecond,
	})
	require.NoError(t, err)
	token, err := tokens.Issue(artisanID, testutil.RandomEmail(), domain.RoleUser)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	resp, err := newTestClient(t).WithToken(token).GET(apiBase + "/auth/profile")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, testutil.ReadBody(t, resp))
}

func TestUpdateProfile(t *testing.T) {
	client, artisanID := registerArtisan(t)

	resp, err := client.PUT(apiBase+"/auth/profile", map[string]interface{}{
		"bio":              "Third generation block printer.",
		"business_name":    "Meera Handlooms",
		"experience_years": 12,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, testutil.ReadBody(t, resp))

	var updated struct {
		Data struct {
			ID              string `json:"id"`
			Bio             string `json:"bio"`
			BusinessName    string `json:"business_name"`
			ExperienceYears int    `json:"experience_years"`
			Name            string `json:"name"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &updated)
	assert.Equal(t, artisanID, updated.Data.ID)
	assert.Equal(t, "Third generation block printer.", updated.Data.Bio)
	assert.Equal(t, "Meera Handlooms", updated.Data.BusinessName)
	assert.Equal(t, 12, updated.Data.ExperienceYears)
	assert.Equal(t, "Test Artisan", updated.Data.Name, "omitted fields keep their value")
}

func TestChangePassword(t *testing.T) {
	client := newTestClient(t)
	email := testutil.RandomEmail()

	resp, err := client.POST(apiBase+"/auth/register", map[string]interface{}{
		"name":     "Password Changer",
		"email":    email,
		"password": "original-password",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var registered struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &registered)
	authed := client.WithToken(registered.Data.Token)

	resp, err = authed.PUT(apiBase+"/auth/change-password", map[string]interface{}{
		"current_password": "not-the-original",
		"new_password":     "replacement-password",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, testutil.ReadBody(t, resp))

	resp, err = authed.PUT(apiBase+"/auth/change-password", map[string]interface{}{
		"current_password": "original-password",
		"new_password":     "replacement-password",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, testutil.ReadBody(t, resp))
	_ = resp.Body.Close()

	resp, err = client.POST(apiBase+"/auth/login", map[string]interface{}{
		"email":    email,
		"password": "replacement-password",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode, testutil.ReadBody(t, resp))

	resp, err = client.POST(apiBase+"/auth/login", map[string]interface{}{
		"email":    email,
		"password": "original-password",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, testutil.ReadBody(t, resp))
}

func TestLogout(t *testing.T) {
	client, _ := registerArtisan(t)

	resp, err := client.POST(apiBase+"/auth/logout", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode, testutil.ReadBody(t, resp))
}

func TestVerifyArtisanAdminOnly(t *testing.T) {
	admin, adminID := registerArtisan(t)
	regular, targetID := registerArtisan(t)

	// A regular user may not moderate.
	resp, err := regular.PUT(apiBase+"/artisans/"+targetID+"/verify", map[string]interface{}{
		"verified": true,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, testutil.ReadBody(t, resp))

	// Promote to admin directly; roles are read fresh on every request.
	_, err = testDB.Exec(t.Context(), `UPDATE artisans SET role = 'admin' WHERE id = $1`, adminID)
	require.NoError(t, err)

	resp, err = admin.PUT(apiBase+"/artisans/"+targetID+"/verify", map[string]interface{}{
		"verified": true,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, testutil.ReadBody(t, resp))

	var verified struct {
		Data struct {
			ID       string `json:"id"`
			Verified bool   `json:"verified"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &verified)
	assert.Equal(t, targetID, verified.Data.ID)
	assert.True(t, verified.Data.Verified)

	// The flag shows on the public profile and the directory filter.
	resp, err = newTestClient(t).GET(apiBase + "/artisans/" + targetID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	testutil.DecodeJSON(t, resp, &verified)
	assert.True(t, verified.Data.Verified)
}

func TestArtisanSkills(t *testing.T) {
	_, artisanID := registerArtisan(t)
	client := newTestClient(t)

	// A fresh profile has no skills.
	resp, err := client.GET(apiBase + "/artisans/" + artisanID + "/skills")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, testutil.ReadBody(t, resp))
	var skills struct {
		Success bool `json:"success"`
		Data    []struct {
			Name            string `json:"name"`
			Level           string `json:"level"`
			YearsExperience int    `json:"years_experience"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &skills)
	assert.True(t, skills.Success)
	assert.Empty(t, skills.Data)

	// Skills are maintained out of band; seed two with distinct timestamps.
	_, err = testDB.Exec(t.Context(), `
		INSERT INTO artisan_skills (artisan_id, name, level, years_experience, created_at)
		VALUES ($1, 'Block printing', 'expert', 15, NOW() - INTERVAL '1 hour'),
		       ($1, 'Natural dyeing', 'intermediate', 4, NOW())
	`, artisanID)
	require.NoError(t, err)

	resp, err = client.GET(apiBase + "/artisans/" + artisanID + "/skills")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, testutil.ReadBody(t, resp))
	testutil.DecodeJSON(t, resp, &skills)
	require.Len(t, skills.Data, 2)
	assert.Equal(t, "Natural dyeing", skills.Data[0].Name, "newest first")
	assert.Equal(t, "Block printing", skills.Data[1].Name)
	assert.Equal(t, 15, skills.Data[1].YearsExperience)
}

func TestConcurrentRegistrationHitsConstraint(t *testing.T) {
	repo := identitypostgres.NewRepository(testDB)
	email := testutil.RandomEmail()

	makeArtisan := func() *domain.Artisan {
		return &domain.Artisan{
			Name:            "Race Condition",
			Email:           email,
			PasswordHash:    "x",
			CraftCategories: []string{},
			Languages:       []string{},
			Role:            domain.RoleUser,
		}
	}

	require.NoError(t, repo.CreateArtisan(t.Context(), makeArtisan()))

	// A second insert for the same email bypasses the service's pre-check,
	// the way a concurrent registration would.
	err := repo.CreateArtisan(t.Context(), makeArtisan())
	require.ErrorIs(t, err, identity.ErrEmailExists)
}

func TestPublicArtisanDirectory(t *testing.T) {
	_, artisanID := registerArtisan(t)

	resp, err := newTestClient(t).GET(apiBase + "/artisans")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, testutil.ReadBody(t, resp))
	var list struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
		Pagination struct {
			Total int `json:"total"`
		} `json:"pagination"`
	}
	testutil.DecodeJSON(t, resp, &list)
	assert.GreaterOrEqual(t, list.Pagination.Total, 1)

	resp, err = newTestClient(t).GET(apiBase + "/artisans/" + artisanID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, testutil.ReadBody(t, resp))
	var profile struct {
		Data struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"data"`
	}
	testutil.DecodeJSON(t, resp, &profile)
	assert.Equal(t, artisanID, profile.Data.ID)
}
