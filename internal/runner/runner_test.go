package runner

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shouni/go-doubutsu-kit/pkg/domain"
	"github.com/shouni/go-doubutsu-kit/pkg/generator"
	"github.com/shouni/go-doubutsu-kit/pkg/store"
)

// newTestGateway はゲートウェイのふりをする httptest サーバーを立てるのだ。
func newTestGateway(t *testing.T, images []string) (*generator.Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"images": images})
	}))
	return generator.NewClient(srv.Client(), srv.URL+"/api/generate-images"), srv
}

func newTestStore(t *testing.T) *store.JSONStore {
	t.Helper()
	st, err := store.NewJSONStore(filepath.Join(t.TempDir(), "studio.json"))
	if err != nil {
		t.Fatalf("ストアの初期化に失敗しました: %v", err)
	}
	return st
}

func TestPortraitRunner(t *testing.T) {
	ctx := context.Background()
	portrait := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png-bytes"))

	t.Run("作成したキャラクターが肖像画つきで保存されること", func(t *testing.T) {
		client, srv := newTestGateway(t, []string{portrait})
		defer srv.Close()
		st := newTestStore(t)

		pr := NewPortraitRunner(st, client, nil, "output")
		out, err := pr.Run(ctx, PortraitInput{
			Name:        "ポチ",
			Species:     domain.SpeciesDog,
			Personality: domain.PersonalityBrave,
			Colors:      domain.Colors{Primary: "brown"},
		})
		if err != nil {
			t.Fatalf("作成に失敗しました: %v", err)
		}
		if out.Animal.PortraitImage == "" {
			t.Error("肖像画が設定されていません")
		}

		saved, err := st.GetAnimal(out.Animal.ID)
		if err != nil {
			t.Fatalf("保存されたキャラクターが見つかりません: %v", err)
		}
		if saved.PortraitImage != portrait {
			t.Error("保存された肖像画が生成結果と一致しません")
		}
	})

	t.Run("名前が安全フィルターで拒否されたら生成リクエストを送らないこと", func(t *testing.T) {
		called := false
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		defer srv.Close()
		client := generator.NewClient(srv.Client(), srv.URL)
		st := newTestStore(t)

		pr := NewPortraitRunner(st, client, nil, "output")
		_, err := pr.Run(ctx, PortraitInput{
			Name:        "fight",
			Species:     domain.SpeciesDog,
			Personality: domain.PersonalityBrave,
		})
		if err == nil {
			t.Fatal("拒否されるはずの名前が通っています")
		}
		if called {
			t.Error("拒否後にゲートウェイが呼ばれています")
		}

		animals, _ := st.ListAnimals()
		if len(animals) != 0 {
			t.Error("拒否されたのにキャラクターが保存されています")
		}
	})

	t.Run("模様の自由テキストも安全フィルターを通ること", func(t *testing.T) {
		called := false
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		defer srv.Close()
		client := generator.NewClient(srv.Client(), srv.URL)
		st := newTestStore(t)

		pr := NewPortraitRunner(st, client, nil, "output")
		_, err := pr.Run(ctx, PortraitInput{
			Name:        "ポチ",
			Species:     domain.SpeciesDog,
			Personality: domain.PersonalityBrave,
			Colors:      domain.Colors{Primary: "brown", Markings: "covered in blood and knife scars"},
		})
		if err == nil {
			t.Fatal("拒否されるはずの模様が通っています")
		}
		if called {
			t.Error("拒否後にゲートウェイが呼ばれています")
		}

		animals, _ := st.ListAnimals()
		if len(animals) != 0 {
			t.Error("拒否されたのにキャラクターが保存されています")
		}
	})

	t.Run("未知の種は拒否されること", func(t *testing.T) {
		client, srv := newTestGateway(t, nil)
		defer srv.Close()

		pr := NewPortraitRunner(newTestStore(t), client, nil, "output")
		_, err := pr.Run(ctx, PortraitInput{
			Name:        "ポチ",
			Species:     domain.Species("dragon"),
			Personality: domain.PersonalityBrave,
		})
		if err == nil {
			t.Fatal("未知の種が通っています")
		}
	})
}

func TestSceneRunner(t *testing.T) {
	ctx := context.Background()
	images := []string{"aW1nMQ==", "aW1nMg=="}

	seedAnimal := func(t *testing.T, st *store.JSONStore) domain.Animal {
		t.Helper()
		animal := domain.NewAnimal(domain.ModeImagined, "ルナ", domain.SpeciesUnicorn, domain.PersonalityGentle, domain.Colors{Primary: "white"}, "")
		animal.PortraitImage = "cG9ydHJhaXQ="
		if err := st.PutAnimal(animal); err != nil {
			t.Fatalf("キャラクターの準備に失敗しました: %v", err)
		}
		return animal
	}

	t.Run("シーンがプロンプトと画像つきで保存されること", func(t *testing.T) {
		client, srv := newTestGateway(t, images)
		defer srv.Close()
		st := newTestStore(t)
		animal := seedAnimal(t, st)

		sr := NewSceneRunner(st, client, nil, "output")
		out, err := sr.Run(ctx, SceneInput{
			Title:       "もりのぼうけん",
			AnimalIDs:   []string{animal.ID},
			Location:    domain.LocationForest,
			Description: "かくれんぼをする",
		})
		if err != nil {
			t.Fatalf("シーン作成に失敗しました: %v", err)
		}

		saved, err := st.GetScene(out.Scene.ID)
		if err != nil {
			t.Fatalf("保存されたシーンが見つかりません: %v", err)
		}
		if len(saved.Images) != 2 {
			t.Errorf("画像が %d 枚です（期待値 2）", len(saved.Images))
		}
		if !strings.Contains(saved.Prompt, "かくれんぼをする") {
			t.Error("保存されたプロンプトに説明が含まれていません")
		}
	})

	t.Run("心配な言葉づかいでもやさしいひとことつきで成功すること", func(t *testing.T) {
		client, srv := newTestGateway(t, images)
		defer srv.Close()
		st := newTestStore(t)
		animal := seedAnimal(t, st)

		settings, _ := st.GetSettings()
		settings.ExtraGentleMode = true
		if err := st.SaveSettings(settings); err != nil {
			t.Fatalf("設定の保存に失敗しました: %v", err)
		}

		sr := NewSceneRunner(st, client, nil, "output")
		out, err := sr.Run(ctx, SceneInput{
			AnimalIDs:   []string{animal.ID},
			Location:    domain.LocationForest,
			Description: "もりで lost になっちゃった",
		})
		if err != nil {
			t.Fatalf("許可されるはずの説明が拒否されました: %v", err)
		}
		if out.Reassurance == "" {
			t.Error("やさしいひとことが入っていません")
		}
	})

	t.Run("存在しないキャラクターIDは拒否されること", func(t *testing.T) {
		client, srv := newTestGateway(t, images)
		defer srv.Close()

		sr := NewSceneRunner(newTestStore(t), client, nil, "output")
		_, err := sr.Run(ctx, SceneInput{
			AnimalIDs:   []string{"missing-id"},
			Location:    domain.LocationForest,
			Description: "あそぶ",
		})
		if err == nil {
			t.Fatal("存在しないIDが通っています")
		}
	})

	t.Run("4体以上は拒否されること", func(t *testing.T) {
		client, srv := newTestGateway(t, images)
		defer srv.Close()

		sr := NewSceneRunner(newTestStore(t), client, nil, "output")
		_, err := sr.Run(ctx, SceneInput{
			AnimalIDs:   []string{"a", "b", "c", "d"},
			Location:    domain.LocationForest,
			Description: "あそぶ",
		})
		if err == nil {
			t.Fatal("4体のシーンが通っています")
		}
	})
}

func TestDecodeImage(t *testing.T) {
	t.Run("data URIからMIMEタイプを取り出せること", func(t *testing.T) {
		data, mimeType, err := decodeImage("data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("jpg")))
		if err != nil {
			t.Fatalf("デコードに失敗しました: %v", err)
		}
		if mimeType != "image/jpeg" {
			t.Errorf("MIMEタイプが %s です（期待値 image/jpeg）", mimeType)
		}
		if string(data) != "jpg" {
			t.Error("デコード結果が一致しません")
		}
	})

	t.Run("素のBase64はPNG扱いになること", func(t *testing.T) {
		_, mimeType, err := decodeImage(base64.StdEncoding.EncodeToString([]byte("png")))
		if err != nil {
			t.Fatalf("デコードに失敗しました: %v", err)
		}
		if mimeType != "image/png" {
			t.Errorf("MIMEタイプが %s です（期待値 image/png）", mimeType)
		}
	})

	t.Run("壊れたBase64はエラーになること", func(t *testing.T) {
		if _, _, err := decodeImage("!!!not-base64!!!"); err == nil {
			t.Fatal("壊れたデータが通っています")
		}
	})
}
