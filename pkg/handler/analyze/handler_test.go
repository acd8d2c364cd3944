package analyze

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/anzhiyu-c/sleeve-detector/pkg/domain/model"
	"github.com/anzhiyu-c/sleeve-detector/pkg/service/detector"
	"github.com/anzhiyu-c/sleeve-detector/pkg/service/override"
	"github.com/anzhiyu-c/sleeve-detector/pkg/service/utility"
)

// fakeDetector 返回固定颜色并统计调用次数
type fakeDetector struct {
	color model.ColorTriple
	calls int
}

func (f *fakeDetector) Detect(ctx context.Context, textureID string) model.ColorTriple {
	f.calls++
	return f.color
}

func newTestEngine(det detector.Service, overrides override.Service, assetURL string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAnalyzeHandler(det, overrides, utility.NewColorService(), detector.NewTextureFetcher(assetURL, nil))
	engine := gin.New()
	engine.GET("/", h.HandleHome)
	engine.GET("/analyze", h.HandleAnalyze)
	engine.GET("/dominant", h.HandleDominant)
	engine.POST("/add_override", h.HandleAddOverride)
	return engine
}

func doRequest(t *testing.T, engine *gin.Engine, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var payload map[string]any
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
			t.Fatalf("解析响应 JSON 失败: %v | body: %s", err, w.Body.String())
		}
	}
	return w, payload
}

func TestHandleHome(t *testing.T) {
	engine := newTestEngine(&fakeDetector{}, override.NewService(), "")
	w, _ := doRequest(t, engine, http.MethodGet, "/", "")

	if w.Code != http.StatusOK {
		t.Fatalf("存活探针应返回 200: got %d", w.Code)
	}
	if w.Body.String() != "Ultimate Sleeve Detection Server" {
		t.Errorf("存活标记文本不符: %q", w.Body.String())
	}
}

func TestAnalyzeRejectsNonNumericID(t *testing.T) {
	fake := &fakeDetector{color: model.ColorTriple{R: 1, G: 2, B: 3}}
	engine := newTestEngine(fake, override.NewService(), "")

	tests := []string{"abc", "12a", "", "1.5", "-2"}
	for _, id := range tests {
		t.Run("id="+id, func(t *testing.T) {
			w, payload := doRequest(t, engine, http.MethodGet, "/analyze?texture_id="+id, "")

			if w.Code != http.StatusBadRequest {
				t.Fatalf("非法ID应返回 400: got %d", w.Code)
			}
			if payload["valid"] != false {
				t.Errorf("valid 应为 false: %v", payload["valid"])
			}
			if payload["error"] != "Texture ID must be numeric" {
				t.Errorf("错误信息不符: %v", payload["error"])
			}
			if _, ok := payload["server_timestamp"].(float64); !ok {
				t.Errorf("应包含数值型 server_timestamp: %v", payload["server_timestamp"])
			}
		})
	}

	if fake.calls != 0 {
		t.Errorf("非法ID不应触发检测: calls=%d", fake.calls)
	}
}

func TestAnalyzeWellFormedID(t *testing.T) {
	fake := &fakeDetector{color: model.ColorTriple{R: 120, G: 64, B: 200}}
	engine := newTestEngine(fake, override.NewService(), "")

	w, payload := doRequest(t, engine, http.MethodGet, "/analyze?texture_id=12345", "")

	if w.Code != http.StatusOK {
		t.Fatalf("合法ID应返回 200: got %d", w.Code)
	}
	if payload["valid"] != true {
		t.Errorf("valid 应为 true: %v", payload["valid"])
	}
	if payload["sleeve_type"] != "short" {
		t.Errorf("sleeve_type 不符: %v", payload["sleeve_type"])
	}
	if payload["texture_id"] != "12345" {
		t.Errorf("texture_id 不符: %v", payload["texture_id"])
	}

	colors, ok := payload["color"].([]any)
	if !ok || len(colors) != 3 {
		t.Fatalf("color 应为 3 元素数组: %v", payload["color"])
	}
	for i, c := range colors {
		v, ok := c.(float64)
		if !ok || v < 0 || v > 255 {
			t.Errorf("通道 %d 超出 [0,255]: %v", i, c)
		}
	}
	if fake.calls != 1 {
		t.Errorf("应恰好触发一次检测: calls=%d", fake.calls)
	}
}

func TestAddOverride(t *testing.T) {
	overrides := override.NewService()
	engine := newTestEngine(&fakeDetector{}, overrides, "")

	// 首次插入：total_overrides 变为 1
	w, payload := doRequest(t, engine, http.MethodPost, "/add_override", `{"texture_id":"1","color":[10,20,30]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("合法覆盖应返回 200: got %d | %s", w.Code, w.Body.String())
	}
	if payload["success"] != true {
		t.Errorf("success 应为 true: %v", payload["success"])
	}
	if payload["total_overrides"] != float64(1) {
		t.Errorf("首次插入后 total_overrides 应为 1: %v", payload["total_overrides"])
	}

	// 同键重复写入：替换而不是新增
	_, payload = doRequest(t, engine, http.MethodPost, "/add_override", `{"texture_id":"1","color":[40,50,60]}`)
	if payload["total_overrides"] != float64(1) {
		t.Errorf("同键重复写入后 total_overrides 应仍为 1: %v", payload["total_overrides"])
	}

	got, ok := overrides.Get("1")
	if !ok || got != (model.ColorTriple{R: 40, G: 50, B: 60}) {
		t.Errorf("覆盖表应保存最新值: %v", got)
	}
}

func TestAddOverrideInvalidParameters(t *testing.T) {
	engine := newTestEngine(&fakeDetector{}, override.NewService(), "")

	tests := []struct {
		name string
		body string
	}{
		{name: "missing texture_id", body: `{"color":[1,2,3]}`},
		{name: "missing color", body: `{"texture_id":"1"}`},
		{name: "short color", body: `{"texture_id":"1","color":[1,2]}`},
		{name: "long color", body: `{"texture_id":"1","color":[1,2,3,4]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, payload := doRequest(t, engine, http.MethodPost, "/add_override", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("非法参数应返回 400: got %d", w.Code)
			}
			if payload["success"] != false || payload["error"] != "Invalid parameters" {
				t.Errorf("错误响应不符: %v", payload)
			}
		})
	}
}

func TestAddOverrideMalformedBody(t *testing.T) {
	engine := newTestEngine(&fakeDetector{}, override.NewService(), "")

	w, payload := doRequest(t, engine, http.MethodPost, "/add_override", `{not json`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("无法解析的请求体应返回 500: got %d", w.Code)
	}
	if payload["success"] != false {
		t.Errorf("success 应为 false: %v", payload["success"])
	}
}

func TestAddOverrideClampsChannels(t *testing.T) {
	overrides := override.NewService()
	engine := newTestEngine(&fakeDetector{}, overrides, "")

	doRequest(t, engine, http.MethodPost, "/add_override", `{"texture_id":"9","color":[-5,300,128]}`)

	got, ok := overrides.Get("9")
	if !ok {
		t.Fatal("覆盖应当写入成功")
	}
	if got != (model.ColorTriple{R: 0, G: 255, B: 128}) {
		t.Errorf("通道应收敛到 [0,255]: got %v", got)
	}
}

func TestDominantRejectsNonNumericID(t *testing.T) {
	engine := newTestEngine(&fakeDetector{}, override.NewService(), "")

	w, payload := doRequest(t, engine, http.MethodGet, "/dominant?texture_id=abc", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("非法ID应返回 400: got %d", w.Code)
	}
	if payload["valid"] != false {
		t.Errorf("valid 应为 false: %v", payload["valid"])
	}
}

func TestDominantFetchFailureFallsBackToSentinel(t *testing.T) {
	assets := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer assets.Close()

	engine := newTestEngine(&fakeDetector{}, override.NewService(), assets.URL)

	w, payload := doRequest(t, engine, http.MethodGet, "/dominant?texture_id=123", "")
	if w.Code != http.StatusOK {
		t.Fatalf("下载失败也应返回 200: got %d", w.Code)
	}
	if payload["valid"] != true || payload["mode"] != "dominant" {
		t.Errorf("响应结构不符: %v", payload)
	}

	colors, ok := payload["color"].([]any)
	if !ok || len(colors) != 3 {
		t.Fatalf("color 应为 3 元素数组: %v", payload["color"])
	}
	for i, c := range colors {
		if c.(float64) != 255 {
			t.Errorf("兜底颜色通道 %d 应为 255: %v", i, c)
		}
	}
}
