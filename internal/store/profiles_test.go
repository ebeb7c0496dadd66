package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/curata-dev/curata/internal/models"
)

func TestGetAllCountsEachProfileOnce(t *testing.T) {
	conn := setupTestDB(t)
	s := NewProfileStore(conn)

	cat := seedCategory(t, conn, "Design", "design")
	tagA := seedTag(t, conn, "minimal", models.TagContextual, true)
	tagB := seedTag(t, conn, "bold", models.TagContextual, true)
	tagC := seedTag(t, conn, "retro", models.TagContextual, true)

	// One profile carrying three matching tags must appear exactly once.
	p := seedProfile(t, conn, models.Profile{Name: "Acme", CategoryID: &cat.ID})
	linkTag(t, conn, p.ID, tagA.ID)
	linkTag(t, conn, p.ID, tagB.ID)
	linkTag(t, conn, p.ID, tagC.ID)

	page, err := s.GetAll(context.Background(), Filter{
		Status: models.StatusPublished,
		TagIDs: []uint{tagA.ID, tagB.ID, tagC.ID},
	})
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(page.Profiles) != 1 {
		t.Fatalf("expected 1 profile, got %d", len(page.Profiles))
	}
	if page.Pagination.Total != 1 {
		t.Fatalf("expected total 1, got %d", page.Pagination.Total)
	}
}

func TestGetAllTotalMatchesDistinctProfiles(t *testing.T) {
	conn := setupTestDB(t)
	s := NewProfileStore(conn)

	tag := seedTag(t, conn, "shared", models.TagContextual, true)
	other := seedTag(t, conn, "other", models.TagContextual, true)

	// Acme matches via two tags, Bolt via one: total must be 2, not 3.
	acme := seedProfile(t, conn, models.Profile{Name: "Acme"})
	bolt := seedProfile(t, conn, models.Profile{Name: "Bolt"})
	linkTag(t, conn, acme.ID, tag.ID)
	linkTag(t, conn, acme.ID, other.ID)
	linkTag(t, conn, bolt.ID, tag.ID)

	page, err := s.GetAll(context.Background(), Filter{
		Status: models.StatusPublished,
		TagIDs: []uint{tag.ID, other.ID},
	})
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if page.Pagination.Total != 2 {
		t.Fatalf("expected total 2, got %d", page.Pagination.Total)
	}
	if len(page.Profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(page.Profiles))
	}
}

func TestGetAllPaginationCoversEveryProfile(t *testing.T) {
	conn := setupTestDB(t)
	s := NewProfileStore(conn)

	base := time.Now().Add(-24 * time.Hour)
	for i := 0; i < 5; i++ {
		seedProfile(t, conn, models.Profile{
			Name:        "Profile " + string(rune('A'+i)),
			PublishedAt: timePtr(base.Add(time.Duration(i) * time.Minute)),
		})
	}

	seen := map[uint]bool{}
	for pageNum := 1; pageNum <= 3; pageNum++ {
		page, err := s.GetAll(context.Background(), Filter{
			Status: models.StatusPublished,
			Page:   pageNum,
			Limit:  2,
		})
		if err != nil {
			t.Fatalf("page %d: %v", pageNum, err)
		}
		if page.Pagination.Total != 5 {
			t.Fatalf("page %d: expected total 5, got %d", pageNum, page.Pagination.Total)
		}
		if page.Pagination.TotalPages != 3 {
			t.Fatalf("page %d: expected 3 total pages, got %d", pageNum, page.Pagination.TotalPages)
		}
		for _, p := range page.Profiles {
			if seen[p.ID] {
				t.Fatalf("profile %d returned on more than one page", p.ID)
			}
			seen[p.ID] = true
		}
	}
	if len(seen) != 5 {
		t.Fatalf("expected 5 distinct profiles across pages, got %d", len(seen))
	}
}

func TestGetAllDimensionsCombineWithAND(t *testing.T) {
	conn := setupTestDB(t)
	s := NewProfileStore(conn)

	cat := seedCategory(t, conn, "Music", "music")
	tag := seedTag(t, conn, "jazz", models.TagContextual, true)

	match := seedProfile(t, conn, models.Profile{Name: "Match", CategoryID: &cat.ID, Language: "fr"})
	linkTag(t, conn, match.ID, tag.ID)

	// Right category, wrong language.
	wrongLang := seedProfile(t, conn, models.Profile{Name: "WrongLang", CategoryID: &cat.ID, Language: "en"})
	linkTag(t, conn, wrongLang.ID, tag.ID)

	// Right language, no tag.
	seedProfile(t, conn, models.Profile{Name: "NoTag", CategoryID: &cat.ID, Language: "fr"})

	page, err := s.GetAll(context.Background(), Filter{
		Status:     models.StatusPublished,
		CategoryID: cat.ID,
		TagIDs:     []uint{tag.ID},
		Languages:  []string{"fr"},
	})
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(page.Profiles) != 1 || page.Profiles[0].Name != "Match" {
		t.Fatalf("expected only Match, got %+v", page.Profiles)
	}
}

func TestGetAllMultiValueDimensionIsOR(t *testing.T) {
	conn := setupTestDB(t)
	s := NewProfileStore(conn)

	cat := seedCategory(t, conn, "Art", "art")
	scA := seedSubcategory(t, conn, cat.ID, "Painting", "painting")
	scB := seedSubcategory(t, conn, cat.ID, "Sculpture", "sculpture")
	scC := seedSubcategory(t, conn, cat.ID, "Digital", "digital")

	pa := seedProfile(t, conn, models.Profile{Name: "Painter"})
	pb := seedProfile(t, conn, models.Profile{Name: "Sculptor"})
	pc := seedProfile(t, conn, models.Profile{Name: "Digital"})
	linkSubcategory(t, conn, pa.ID, scA.ID)
	linkSubcategory(t, conn, pb.ID, scB.ID)
	linkSubcategory(t, conn, pc.ID, scC.ID)

	page, err := s.GetAll(context.Background(), Filter{
		Status:         models.StatusPublished,
		SubcategoryIDs: []uint{scA.ID, scB.ID},
	})
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if page.Pagination.Total != 2 {
		t.Fatalf("expected total 2, got %d", page.Pagination.Total)
	}
	for _, p := range page.Profiles {
		if p.Name == "Digital" {
			t.Fatalf("Digital should not match subcategory filter")
		}
	}
}

func TestGetAllEmptyListDimensionsAreIgnored(t *testing.T) {
	conn := setupTestDB(t)
	s := NewProfileStore(conn)

	seedProfile(t, conn, models.Profile{Name: "Solo"})

	page, err := s.GetAll(context.Background(), Filter{
		Status:         models.StatusPublished,
		TagIDs:         []uint{},
		SubcategoryIDs: []uint{},
		Countries:      []string{},
	})
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if page.Pagination.Total != 1 {
		t.Fatalf("empty list dimensions must not filter, got total %d", page.Pagination.Total)
	}
}

func TestGetAllFilterJoinDoesNotTruncateLists(t *testing.T) {
	conn := setupTestDB(t)
	s := NewProfileStore(conn)

	cat := seedCategory(t, conn, "Food", "food")
	scA := seedSubcategory(t, conn, cat.ID, "Baking", "baking")
	scB := seedSubcategory(t, conn, cat.ID, "Grilling", "grilling")
	tag := seedTag(t, conn, "vegan", models.TagContextual, true)

	p := seedProfile(t, conn, models.Profile{Name: "Chef", CategoryID: &cat.ID})
	linkSubcategory(t, conn, p.ID, scA.ID)
	linkSubcategory(t, conn, p.ID, scB.ID)
	linkTag(t, conn, p.ID, tag.ID)
	addSocialLink(t, conn, p.ID, "instagram", "https://instagram.com/chef")
	addSocialLink(t, conn, p.ID, "youtube", "https://youtube.com/chef")
	addSocialLink(t, conn, p.ID, "tiktok", "https://tiktok.com/@chef")

	// Filtering on one subcategory must still return both subcategories and
	// all three links on the row.
	page, err := s.GetAll(context.Background(), Filter{
		Status:         models.StatusPublished,
		SubcategoryIDs: []uint{scA.ID},
	})
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(page.Profiles) != 1 {
		t.Fatalf("expected 1 profile, got %d", len(page.Profiles))
	}
	got := page.Profiles[0]
	if len(got.Subcategories) != 2 {
		t.Fatalf("expected 2 subcategories, got %d", len(got.Subcategories))
	}
	if len(got.SocialLinks) != 3 {
		t.Fatalf("expected 3 social links, got %d", len(got.SocialLinks))
	}
}

func TestGetAllRejectsNegativePagination(t *testing.T) {
	conn := setupTestDB(t)
	s := NewProfileStore(conn)

	if _, err := s.GetAll(context.Background(), Filter{Page: -1}); !errors.Is(err, ErrInvalidPagination) {
		t.Fatalf("expected ErrInvalidPagination for negative page, got %v", err)
	}
	if _, err := s.GetAll(context.Background(), Filter{Limit: -5}); !errors.Is(err, ErrInvalidPagination) {
		t.Fatalf("expected ErrInvalidPagination for negative limit, got %v", err)
	}
}

func TestGetAllZeroPaginationUsesDefaults(t *testing.T) {
	conn := setupTestDB(t)
	s := NewProfileStore(conn)
	seedProfile(t, conn, models.Profile{Name: "Only"})

	page, err := s.GetAll(context.Background(), Filter{Status: models.StatusPublished})
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if page.Pagination.Page != 1 || page.Pagination.Limit != DefaultPageSize {
		t.Fatalf("expected defaults 1/%d, got %d/%d", DefaultPageSize, page.Pagination.Page, page.Pagination.Limit)
	}
}

func TestGetAllHasImageExcludesPlaceholders(t *testing.T) {
	conn := setupTestDB(t)
	s := NewProfileStore(conn)

	seedProfile(t, conn, models.Profile{Name: "Real", ImageURL: strPtr("https://cdn.example.com/a.jpg")})
	seedProfile(t, conn, models.Profile{Name: "NoImage"})
	seedProfile(t, conn, models.Profile{Name: "Empty", ImageURL: strPtr("")})
	seedProfile(t, conn, models.Profile{Name: "Default", ImageURL: strPtr(models.DefaultAvatarPath)})
	seedProfile(t, conn, models.Profile{Name: "Placeholder", ImageURL: strPtr("https://cdn.example.com/placeholder.png")})

	page, err := s.GetAll(context.Background(), Filter{Status: models.StatusPublished, HasImage: true})
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(page.Profiles) != 1 || page.Profiles[0].Name != "Real" {
		t.Fatalf("expected only Real, got %+v", page.Profiles)
	}
}

func TestGetAllSearchIsCaseInsensitive(t *testing.T) {
	conn := setupTestDB(t)
	s := NewProfileStore(conn)

	cat := seedCategory(t, conn, "Photography", "photography")
	seedProfile(t, conn, models.Profile{Name: "Luna Studio"})
	seedProfile(t, conn, models.Profile{Name: "Other", CategoryID: &cat.ID})
	seedProfile(t, conn, models.Profile{Name: "Unrelated"})

	// Matches on profile name.
	page, err := s.GetAll(context.Background(), Filter{Status: models.StatusPublished, Search: "LUNA"})
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(page.Profiles) != 1 || page.Profiles[0].Name != "Luna Studio" {
		t.Fatalf("expected Luna Studio, got %+v", page.Profiles)
	}

	// Matches on category name.
	page, err = s.GetAll(context.Background(), Filter{Status: models.StatusPublished, Search: "photo"})
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(page.Profiles) != 1 || page.Profiles[0].Name != "Other" {
		t.Fatalf("expected Other via category name, got %+v", page.Profiles)
	}
}

func TestGetAllStatusFilter(t *testing.T) {
	conn := setupTestDB(t)
	s := NewProfileStore(conn)

	seedProfile(t, conn, models.Profile{Name: "Live"})
	seedProfile(t, conn, models.Profile{Name: "Draft", Status: models.StatusDraft})

	page, err := s.GetAll(context.Background(), Filter{Status: models.StatusPublished})
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if page.Pagination.Total != 1 || page.Profiles[0].Name != "Live" {
		t.Fatalf("expected only Live, got %+v", page.Profiles)
	}

	// Empty status disables the predicate.
	page, err = s.GetAll(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if page.Pagination.Total != 2 {
		t.Fatalf("expected both statuses, got total %d", page.Pagination.Total)
	}
}

func TestGetByID(t *testing.T) {
	conn := setupTestDB(t)
	s := NewProfileStore(conn)

	cat := seedCategory(t, conn, "Tech", "tech")
	tag := seedTag(t, conn, "golang", models.TagContextual, true)
	p := seedProfile(t, conn, models.Profile{Name: "Dev", CategoryID: &cat.ID})
	linkTag(t, conn, p.ID, tag.ID)
	addSocialLink(t, conn, p.ID, "github", "https://github.com/dev")

	got, err := s.GetByID(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil {
		t.Fatal("expected profile, got nil")
	}
	if got.Category == nil || got.Category.Name != "Tech" {
		t.Fatalf("expected category preloaded, got %+v", got.Category)
	}
	if len(got.Tags) != 1 || len(got.SocialLinks) != 1 {
		t.Fatalf("expected tags and links preloaded, got %d/%d", len(got.Tags), len(got.SocialLinks))
	}
}

func TestGetByIDMissingReturnsNil(t *testing.T) {
	conn := setupTestDB(t)
	s := NewProfileStore(conn)

	got, err := s.GetByID(context.Background(), 9999)
	if err != nil {
		t.Fatalf("expected nil error for missing profile, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil profile, got %+v", got)
	}
}

func TestGetRelatedRanking(t *testing.T) {
	conn := setupTestDB(t)
	s := NewProfileStore(conn)

	cat := seedCategory(t, conn, "Fitness", "fitness")
	otherCat := seedCategory(t, conn, "Travel", "travel")
	sc := seedSubcategory(t, conn, cat.ID, "Yoga", "yoga")

	ref := seedProfile(t, conn, models.Profile{Name: "Ref", CategoryID: &cat.ID, SubcategoryID: &sc.ID})

	sameSub := seedProfile(t, conn, models.Profile{Name: "SameSub", CategoryID: &cat.ID, SubcategoryID: &sc.ID})
	sameCat := seedProfile(t, conn, models.Profile{Name: "SameCat", CategoryID: &cat.ID})
	unrelated := seedProfile(t, conn, models.Profile{Name: "Unrelated", CategoryID: &otherCat.ID})

	related, err := s.GetRelated(context.Background(), ref.ID, 10)
	if err != nil {
		t.Fatalf("GetRelated: %v", err)
	}
	if len(related) != 3 {
		t.Fatalf("expected 3 related, got %d", len(related))
	}
	if related[0].ID != sameSub.ID {
		t.Fatalf("expected same-subcategory first, got %s", related[0].Name)
	}
	if related[1].ID != sameCat.ID {
		t.Fatalf("expected same-category second, got %s", related[1].Name)
	}
	if related[2].ID != unrelated.ID {
		t.Fatalf("expected unrelated last, got %s", related[2].Name)
	}
	if related[0].RelevanceScore != 3 || related[1].RelevanceScore != 2 || related[2].RelevanceScore != 1 {
		t.Fatalf("unexpected scores: %d/%d/%d",
			related[0].RelevanceScore, related[1].RelevanceScore, related[2].RelevanceScore)
	}
}

func TestGetRelatedSharedTagsAddToScore(t *testing.T) {
	conn := setupTestDB(t)
	s := NewProfileStore(conn)

	cat := seedCategory(t, conn, "Gaming", "gaming")
	otherCat := seedCategory(t, conn, "News", "news")
	t1 := seedTag(t, conn, "speedrun", models.TagContextual, true)
	t2 := seedTag(t, conn, "retro", models.TagContextual, true)
	t3 := seedTag(t, conn, "coop", models.TagContextual, true)

	ref := seedProfile(t, conn, models.Profile{Name: "Ref", CategoryID: &cat.ID})
	for _, tag := range []models.Tag{t1, t2, t3} {
		linkTag(t, conn, ref.ID, tag.ID)
	}

	// Three shared tags across category lines: 1 + 3 = 4 beats 2 + 0.
	tagged := seedProfile(t, conn, models.Profile{Name: "Tagged", CategoryID: &otherCat.ID})
	for _, tag := range []models.Tag{t1, t2, t3} {
		linkTag(t, conn, tagged.ID, tag.ID)
	}
	sameCat := seedProfile(t, conn, models.Profile{Name: "SameCat", CategoryID: &cat.ID})

	related, err := s.GetRelated(context.Background(), ref.ID, 10)
	if err != nil {
		t.Fatalf("GetRelated: %v", err)
	}
	if len(related) != 2 {
		t.Fatalf("expected 2 related, got %d", len(related))
	}
	if related[0].ID != tagged.ID || related[0].RelevanceScore != 4 {
		t.Fatalf("expected Tagged first with score 4, got %s score %d", related[0].Name, related[0].RelevanceScore)
	}
	if related[1].ID != sameCat.ID || related[1].RelevanceScore != 2 {
		t.Fatalf("expected SameCat second with score 2, got %s score %d", related[1].Name, related[1].RelevanceScore)
	}
}

func TestGetRelatedExcludesSelfAndDrafts(t *testing.T) {
	conn := setupTestDB(t)
	s := NewProfileStore(conn)

	cat := seedCategory(t, conn, "Craft", "craft")
	ref := seedProfile(t, conn, models.Profile{Name: "Ref", CategoryID: &cat.ID})
	seedProfile(t, conn, models.Profile{Name: "Draft", CategoryID: &cat.ID, Status: models.StatusDraft})
	pub := seedProfile(t, conn, models.Profile{Name: "Pub", CategoryID: &cat.ID})

	related, err := s.GetRelated(context.Background(), ref.ID, 10)
	if err != nil {
		t.Fatalf("GetRelated: %v", err)
	}
	if len(related) != 1 || related[0].ID != pub.ID {
		t.Fatalf("expected only Pub, got %+v", related)
	}
}

func TestGetRelatedMissingReference(t *testing.T) {
	conn := setupTestDB(t)
	s := NewProfileStore(conn)

	if _, err := s.GetRelated(context.Background(), 12345, 6); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetRecentWindow(t *testing.T) {
	conn := setupTestDB(t)
	s := NewProfileStore(conn)

	seedProfile(t, conn, models.Profile{Name: "Fresh", PublishedAt: timePtr(time.Now().Add(-time.Hour))})
	seedProfile(t, conn, models.Profile{Name: "Edge", PublishedAt: timePtr(time.Now().Add(-47 * time.Hour))})
	seedProfile(t, conn, models.Profile{Name: "Stale", PublishedAt: timePtr(time.Now().Add(-50 * time.Hour))})
	seedProfile(t, conn, models.Profile{
		Name:        "DraftFresh",
		Status:      models.StatusDraft,
		PublishedAt: timePtr(time.Now().Add(-time.Hour)),
	})

	recent, err := s.GetRecent(context.Background(), 10)
	if err != nil {
		t.Fatalf("GetRecent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 recent profiles, got %d", len(recent))
	}
	if recent[0].Name != "Fresh" || recent[1].Name != "Edge" {
		t.Fatalf("expected newest first, got %s then %s", recent[0].Name, recent[1].Name)
	}
}

func TestGetFilterOptions(t *testing.T) {
	conn := setupTestDB(t)
	s := NewProfileStore(conn)

	p1 := seedProfile(t, conn, models.Profile{Name: "A", Location: "France", Language: "fr"})
	seedProfile(t, conn, models.Profile{Name: "B", Location: "Japan", Language: "ja"})
	seedProfile(t, conn, models.Profile{Name: "C", Location: "France", Language: "fr"})
	seedProfile(t, conn, models.Profile{Name: "Hidden", Status: models.StatusDraft, Location: "Chile", Language: "es"})
	addSocialLink(t, conn, p1.ID, "instagram", "https://instagram.com/a")

	opts, err := s.GetFilterOptions(context.Background())
	if err != nil {
		t.Fatalf("GetFilterOptions: %v", err)
	}
	if len(opts.Countries) != 2 {
		t.Fatalf("expected 2 countries, got %v", opts.Countries)
	}
	for _, c := range opts.Countries {
		if c == "Chile" {
			t.Fatal("draft profile location must not appear")
		}
	}
	if len(opts.Languages) != 2 {
		t.Fatalf("expected 2 languages, got %v", opts.Languages)
	}
	if len(opts.Platforms) != 1 || opts.Platforms[0] != "instagram" {
		t.Fatalf("expected instagram platform, got %v", opts.Platforms)
	}
}
