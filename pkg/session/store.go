// Package session は、1回の生成セッションの結果をメモリ上に保持するのだ。
// 並行する再生成や世代をまたぐコミットに耐えるよう、全操作はミューテックスで直列化されるのだ。
package session

import (
	"log/slog"
	"sync"

	"github.com/shouni/go-social-kit/pkg/domain"
)

// Store はアイデア・投稿・直近のリクエストを保持するインメモリの状態置き場なのだ。
type Store struct {
	mu sync.Mutex

	epoch   uint64
	posts   []domain.Post
	lastErr error

	request    domain.GenerationRequest
	hasRequest bool

	ideas      []string
	draftTopic string
}

// NewStore は空の Store を生成して返すのだ。
func NewStore() *Store {
	return &Store{}
}

// Begin は新しい生成世代を開始し、その世代番号を返すのだ。
// 前の世代の結果とエラーはこの時点で破棄されるのだ。
func (s *Store) Begin(req domain.GenerationRequest) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.epoch++
	s.posts = nil
	s.lastErr = nil
	s.request = req
	s.hasRequest = true
	return s.epoch
}

// Commit は生成結果を保存するのだ。古い世代のコミットは黙って捨てずに記録するのだ。
func (s *Store) Commit(epoch uint64, posts []domain.Post) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.epoch {
		slog.Debug("古い世代の生成結果を破棄したのだ", "epoch", epoch, "current", s.epoch)
		return false
	}
	s.posts = posts
	s.lastErr = nil
	return true
}

// Fail は生成の致命的な失敗を世代付きで記録するのだ。
func (s *Store) Fail(epoch uint64, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.epoch {
		slog.Debug("古い世代のエラーを破棄したのだ", "epoch", epoch, "current", s.epoch)
		return false
	}
	s.lastErr = err
	return true
}

// Posts は現在の投稿一覧のコピーを返すのだ。
func (s *Store) Posts() []domain.Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Post, len(s.posts))
	copy(out, s.posts)
	return out
}

// Err は直近の生成セッションの致命的エラーを返します。
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Post は指定プラットフォームの投稿のスナップショットを返すのだ。
func (s *Store) Post(platform domain.Platform) (domain.Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.posts {
		if p.Platform == platform {
			return p, true
		}
	}
	return domain.Post{}, false
}

// UpdatePost は指定プラットフォームの投稿を原子的に読み出し・更新するのだ。
// 対象が存在しない場合は domain.ErrMissingContext を返すのだ。
func (s *Store) UpdatePost(platform domain.Platform, fn func(post *domain.Post) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.posts {
		if s.posts[i].Platform == platform {
			return fn(&s.posts[i])
		}
	}
	return domain.ErrMissingContext
}

// UpdateSlide は指定スライドを原子的に読み出し・更新するのだ。
func (s *Store) UpdateSlide(platform domain.Platform, index int, fn func(slide *domain.CarouselSlide) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.posts {
		if s.posts[i].Platform != platform {
			continue
		}
		if index < 0 || index >= len(s.posts[i].Slides) {
			return domain.ErrMissingContext
		}
		return fn(&s.posts[i].Slides[index])
	}
	return domain.ErrMissingContext
}

// Request は直近の生成リクエストを返すのだ。再生成の文脈として使うのだ。
func (s *Store) Request() (domain.GenerationRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.request, s.hasRequest
}

// SetIdeas はアイデア一覧を保存するのだ。
func (s *Store) SetIdeas(ideas []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ideas = make([]string, len(ideas))
	copy(s.ideas, ideas)
}

// Ideas は保存済みのアイデア一覧のコピーを返すのだ。
func (s *Store) Ideas() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.ideas))
	copy(out, s.ideas)
	return out
}

// SelectIdea は指定番号のアイデアを次の生成のトピック下書きとして選ぶのだ。
func (s *Store) SelectIdea(index int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.ideas) {
		return "", domain.ErrMissingContext
	}
	s.draftTopic = s.ideas[index]
	return s.draftTopic, nil
}

// DraftTopic は選択済みのトピック下書きを返します。未選択なら空文字です。
func (s *Store) DraftTopic() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draftTopic
}
