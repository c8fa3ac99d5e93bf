// Command seed fills the configured database with demo posts and comments.
//
//	go run ./cmd/seed -posts 10 -comments 5 -owners 3
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-posts-backend/internal/config"
	"github.com/tbourn/go-posts-backend/internal/domain"
	"github.com/tbourn/go-posts-backend/internal/repo"
	"github.com/tbourn/go-posts-backend/internal/sysutil"
)

func main() {
	posts := flag.Int("posts", 5, "number of posts to create")
	comments := flag.Int("comments", 3, "comments per post")
	owners := flag.Int("owners", 2, "distinct owner ids (1..n)")
	dbURL := flag.String("db", "", "database URL (defaults to DATABASE_URL)")
	reset := flag.Bool("reset", sysutil.IsTruthy(os.Getenv("SEED_RESET")), "delete existing rows first")
	flag.Parse()

	sysutil.InitLogger("info", true, nil)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	cfg.DB.URL = sysutil.FirstNonEmpty(*dbURL, cfg.DB.URL)

	db, err := repo.Open(cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	ctx := context.Background()
	if *reset {
		if err := wipe(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("reset")
		}
	}
	np, nc, err := seed(ctx, db, *posts, *comments, *owners)
	if err != nil {
		log.Fatal().Err(err).Msg("seed")
	}
	log.Info().Int("posts", np).Int("comments", nc).Msg("seeded")
}

// seed creates posts round-robin across owners. Comment authors rotate
// starting at owner+1, so the first comment is never the owner's.
func seed(ctx context.Context, db *gorm.DB, posts, comments, owners int) (int, int, error) {
	if owners < 1 {
		owners = 1
	}
	var np, nc int
	for i := 0; i < posts; i++ {
		owner := int64(i%owners + 1)
		p, err := repo.CreatePost(ctx, db, owner, fmt.Sprintf("Post %d", i+1), fmt.Sprintf("Demo content for post %d.", i+1))
		if err != nil {
			return np, nc, err
		}
		np++
		for j := 0; j < comments; j++ {
			author := (owner+int64(j))%int64(owners+1) + 1
			if _, err := repo.CreateComment(ctx, db, p.ID, author, fmt.Sprintf("Comment %d on post %d", j+1, p.ID)); err != nil {
				return np, nc, err
			}
			nc++
		}
	}
	return np, nc, nil
}

func wipe(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{&domain.Idempotency{}, &domain.Comment{}, &domain.Post{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
