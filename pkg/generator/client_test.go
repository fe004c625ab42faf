package generator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shouni/go-doubutsu-kit/pkg/domain"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(srv.Client(), srv.URL+"/api/generate-images"), srv
}

func TestGenerateImages(t *testing.T) {
	ctx := context.Background()
	settings := domain.DefaultSettings()

	t.Run("成功時は画像がそのまま返ること", func(t *testing.T) {
		var gotReq map[string]any
		client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&gotReq)
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{"images": []string{"img1", "img2"}})
		})
		defer srv.Close()

		res := client.GenerateImages(ctx, "a happy fox", settings, 2, []string{"ref=="})
		if !res.Success {
			t.Fatalf("成功のはずが失敗しました: %+v", res)
		}
		if len(res.Images) != 2 {
			t.Errorf("画像が %d 枚です（期待値 2）", len(res.Images))
		}
		if gotReq["prompt"] != "a happy fox" {
			t.Errorf("送信されたプロンプトが違います: %v", gotReq["prompt"])
		}
		if _, ok := gotReq["referenceImages"]; !ok {
			t.Error("referenceImages フィールドが送信されていません")
		}
	})

	t.Run("2xxでも0枚は失敗扱いになること", func(t *testing.T) {
		client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{"images": []string{}})
		})
		defer srv.Close()

		res := client.GenerateImages(ctx, "p", settings, 1, nil)
		if res.Success {
			t.Fatal("0枚の応答が成功扱いになっています")
		}
		if res.FailureKind != FailureNoImages {
			t.Errorf("FailureKind が %s です（期待値 %s）", res.FailureKind, FailureNoImages)
		}
	})

	t.Run("接続不能は汎用的な接続メッセージになること", func(t *testing.T) {
		client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {})
		srv.Close() // すぐ落として到達不能にするのだ

		res := client.GenerateImages(ctx, "p", settings, 1, nil)
		if res.Success || res.FailureKind != FailureTransport {
			t.Errorf("接続失敗が %s に分類されました", res.FailureKind)
		}
		if res.FriendlyMessage == "" {
			t.Error("接続失敗のメッセージが空です")
		}
	})

	t.Run("解釈できないエラーボディも接続系の扱いになること", func(t *testing.T) {
		client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("<html>gateway timeout</html>"))
		})
		defer srv.Close()

		res := client.GenerateImages(ctx, "p", settings, 1, nil)
		if res.FailureKind != FailureTransport {
			t.Errorf("FailureKind が %s です（期待値 %s）", res.FailureKind, FailureTransport)
		}
	})

	errorCases := []struct {
		name string
		body string
		want FailureKind
	}{
		{"429はレート制限メッセージになること", "got 429 from upstream", FailureRateLimited},
		{"rateの文言もレート制限になること", "rate limit exceeded", FailureRateLimited},
		{"safetyは内容ブロックになること", "blocked by safety system", FailureContent},
		{"authは設定ミスになること", "authentication failed", FailureCredentials},
		{"401も設定ミスになること", "upstream returned 401", FailureCredentials},
		{"quotaは利用枠エラーになること", "monthly quota used up", FailureQuota},
		{"未知のエラーは汎用分類になること", "mysterious failure", FailureUnknown},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": tc.body})
			})
			defer srv.Close()

			res := client.GenerateImages(ctx, "p", settings, 1, nil)
			if res.Success {
				t.Fatal("エラー応答が成功扱いになっています")
			}
			if res.FailureKind != tc.want {
				t.Errorf("FailureKind が %s です（期待値 %s）", res.FailureKind, tc.want)
			}
		})
	}
}

func TestGenerateSceneImages(t *testing.T) {
	t.Run("参照画像がキャラクターから自動収集され、使用プロンプトが返ること", func(t *testing.T) {
		var gotReq struct {
			Count           int      `json:"count"`
			ReferenceImages []string `json:"referenceImages"`
		}
		client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&gotReq)
			_ = json.NewEncoder(w).Encode(map[string]any{"images": []string{"img"}})
		})
		defer srv.Close()

		withPortrait := domain.Animal{Name: "Momo", Species: domain.SpeciesFox, Personality: domain.PersonalityCurious, Colors: domain.Colors{Primary: "orange"}, PortraitImage: "p1=="}
		withSticker := domain.Animal{Name: "Kiki", Species: domain.SpeciesCat, Personality: domain.PersonalityShy, Colors: domain.Colors{Primary: "gray"}, StickerImage: "s1=="}
		plain := domain.Animal{Name: "Hana", Species: domain.SpeciesRabbit, Personality: domain.PersonalityGentle, Colors: domain.Colors{Primary: "white"}}

		settings := domain.DefaultSettings()
		settings.ImageCount = 3

		res, prompt := client.GenerateSceneImages(context.Background(), []domain.Animal{withPortrait, withSticker, plain}, domain.LocationForest, "sharing berries", settings)
		if !res.Success {
			t.Fatalf("生成が失敗しました: %+v", res)
		}
		if gotReq.Count != 3 {
			t.Errorf("count が %d です（期待値 3）", gotReq.Count)
		}
		if len(gotReq.ReferenceImages) != 2 {
			t.Errorf("参照画像が %d 件収集されました（期待値 2）", len(gotReq.ReferenceImages))
		}
		if !strings.Contains(prompt, "sharing berries") {
			t.Error("返却されたプロンプトに説明文が含まれていません")
		}
	})
}

func TestGenerateAnimalPortrait(t *testing.T) {
	t.Run("肖像画は常に1枚だけ要求されること", func(t *testing.T) {
		var gotCount int
		client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Count int `json:"count"`
			}
			_ = json.NewDecoder(r.Body).Decode(&req)
			gotCount = req.Count
			_ = json.NewEncoder(w).Encode(map[string]any{"images": []string{"img"}})
		})
		defer srv.Close()

		animal := domain.Animal{Name: "Momo", Species: domain.SpeciesFox, Personality: domain.PersonalityBrave, Colors: domain.Colors{Primary: "orange"}}
		res, prompt := client.GenerateAnimalPortrait(context.Background(), animal, domain.DefaultSettings())
		if !res.Success {
			t.Fatalf("生成が失敗しました: %+v", res)
		}
		if gotCount != 1 {
			t.Errorf("count が %d です（期待値 1）", gotCount)
		}
		if prompt == "" {
			t.Error("使用プロンプトが返っていません")
		}
	})
}
