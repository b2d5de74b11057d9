// Package seed provides database seeding utilities for development and
// demos.
package seed

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"modam/internal/content"
	"modam/internal/models"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

var nicknamePrefixes = []string{
	"탈모극복", "두피지킴이", "모발부자", "새싹머리", "헤어케어",
	"정수리수호자", "샴푸장인", "토닉러버", "비오틴",
}

var postTitles = []string{
	"탈모 초기인 것 같아 조언 부탁드려요",
	"두피 마사지 3개월 해본 후기",
	"미녹시딜 사용 후기 공유합니다",
	"헤어라인 사진 찍는 팁",
	"영양제 뭐 드시나요?",
	"재촬영했더니 주의에서 정상 나왔어요",
	"샴푸 바꾸고 나서 느낀 점",
	"병원 상담 다녀온 후기",
}

var commentLines = []string{
	"저도 같은 고민이에요",
	"좋은 정보 감사합니다",
	"꾸준함이 답인 것 같아요",
	"병원 한번 가보시는 걸 추천드려요",
	"후기 기다리겠습니다",
	"사진 각도가 중요하더라고요",
}

var reviewLines = []string{
	"자가진단 간편해서 좋아요",
	"관리 가이드가 구체적이라 도움됐어요",
	"재촬영으로 변화를 볼 수 있는 게 최고",
	"커뮤니티 후기들이 진짜 유용해요",
}

// Run populates the database with demo accounts, posts, comments, and
// reviews. Counters are written consistently with the generated rows.
func Run(db *gorm.DB, opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 10
	}
	if opts.NumPosts <= 0 {
		opts.NumPosts = 20
	}

	if opts.ShouldClean {
		if err := clean(db); err != nil {
			return fmt.Errorf("clean before seed: %w", err)
		}
	}

	gofakeit.Seed(0)

	users, err := seedUsers(db, opts.NumUsers)
	if err != nil {
		return err
	}
	if err := seedAdminNotice(db); err != nil {
		return err
	}
	if err := seedPosts(db, users, opts.NumPosts); err != nil {
		return err
	}
	if err := seedReviews(db, users); err != nil {
		return err
	}

	log.Printf("Seeded %d users and %d posts", opts.NumUsers, opts.NumPosts)
	return nil
}

func clean(db *gorm.DB) error {
	for _, model := range []any{
		&models.Comment{}, &models.Post{}, &models.Review{},
		&models.Profile{}, &models.User{},
	} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Unscoped().Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedUsers(db *gorm.DB, n int) ([]*models.Profile, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("seedpass1"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	profiles := make([]*models.Profile, 0, n)
	for i := 0; i < n; i++ {
		user := &models.User{
			Email:    fmt.Sprintf("seed%02d@%s", i, gofakeit.DomainName()),
			Password: string(hashed),
		}
		nickname := fmt.Sprintf("%s%d",
			nicknamePrefixes[i%len(nicknamePrefixes)], gofakeit.Number(1, 999))
		profile := &models.Profile{
			Username: fmt.Sprintf("%s%02d", strings.ToLower(gofakeit.Username()), i),
			Nickname: nickname,
			Role:     models.RoleUser,
			Phone:    fmt.Sprintf("010-%04d-%04d", gofakeit.Number(1000, 9999), gofakeit.Number(1000, 9999)),
		}

		if err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(user).Error; err != nil {
				return err
			}
			profile.UserID = user.ID
			return tx.Create(profile).Error
		}); err != nil {
			return nil, fmt.Errorf("seed user %d: %w", i, err)
		}
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

// seedAdminNotice creates the reserved admin account (unless one exists)
// and a notice post, so the seeded board shows the notice-first ordering.
func seedAdminNotice(db *gorm.DB) error {
	var profile models.Profile
	err := db.First(&profile, "username = ?", models.AdminUsername).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		hashed, err := bcrypt.GenerateFromPassword([]byte("seedpass1"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user := &models.User{
			Email:    "admin@modam.local",
			Password: string(hashed),
		}
		if err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(user).Error; err != nil {
				return err
			}
			profile = models.Profile{
				UserID:   user.ID,
				Username: models.AdminUsername,
				Nickname: models.AdminNickname,
				Role:     models.RoleOwner,
				IsAdmin:  true,
			}
			return tx.Create(&profile).Error
		}); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
	case err != nil:
		return err
	}

	userID := profile.UserID
	notice := &models.Post{
		Title: "모담 커뮤니티 이용 안내",
		Content: content.Encode([]content.Block{
			content.TextBlock("서로를 존중하는 대화 부탁드립니다. 자가진단 결과는 참고용이며, 정확한 판단은 전문의 상담으로 확인해 주세요."),
		}),
		Category: models.CategoryNotice,
		UserID:   &userID,
		Nickname: models.AdminNickname,
	}
	if err := db.Create(notice).Error; err != nil {
		return fmt.Errorf("seed notice: %w", err)
	}
	return nil
}

func seedPosts(db *gorm.DB, profiles []*models.Profile, n int) error {
	categories := []string{
		models.CategoryQuestion, models.CategoryInfo, models.CategoryExperience,
	}

	for i := 0; i < n; i++ {
		author := profiles[rand.Intn(len(profiles))]
		blocks := []content.Block{
			content.TextBlock(gofakeit.Paragraph(1, 3, 8, " ")),
		}
		imageURL := ""
		if gofakeit.Bool() {
			imageURL = gofakeit.ImageURL(640, 480)
			blocks = append(blocks, content.ImageBlock(imageURL),
				content.TextBlock(gofakeit.Sentence(10)))
		}

		userID := author.UserID
		post := &models.Post{
			Title:     postTitles[i%len(postTitles)],
			Content:   content.Encode(blocks),
			Category:  categories[rand.Intn(len(categories))],
			UserID:    &userID,
			Nickname:  author.DisplayNickname(),
			ImageURL:  imageURL,
			ViewCount: gofakeit.Number(0, 500),
			LikeCount: gofakeit.Number(0, 60),
		}
		if err := db.Create(post).Error; err != nil {
			return fmt.Errorf("seed post %d: %w", i, err)
		}

		numComments := gofakeit.Number(0, 5)
		for j := 0; j < numComments; j++ {
			commenter := profiles[rand.Intn(len(profiles))]
			comment := &models.Comment{
				PostID:   post.ID,
				UserID:   commenter.UserID,
				Nickname: commenter.DisplayNickname(),
				Content:  commentLines[rand.Intn(len(commentLines))],
			}
			if err := db.Create(comment).Error; err != nil {
				return fmt.Errorf("seed comment on post %d: %w", post.ID, err)
			}
		}
		// The stored counter matches the actual rows, same as a recount.
		if err := db.Model(post).Update("comment_count", numComments).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedReviews(db *gorm.DB, profiles []*models.Profile) error {
	for i, line := range reviewLines {
		nickname := models.AnonymousNickname
		if i%2 == 0 {
			nickname = profiles[rand.Intn(len(profiles))].DisplayNickname()
		}
		if err := db.Create(&models.Review{
			Nickname: nickname,
			Content:  line,
		}).Error; err != nil {
			return fmt.Errorf("seed review: %w", err)
		}
	}
	return nil
}
