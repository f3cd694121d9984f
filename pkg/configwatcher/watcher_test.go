package configwatcher

import (
	"os"
	"path/filepath"
	"simts_backend/internal/config"
	"simts_backend/pkg/logger"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

const watcherTestConfig = `server:
  port: "8080"
  mode: debug
jwt:
  secret: test-secret
  expire_hours: 1
ai:
  base_url: http://old.example
  api_key: key
  model: test-model
`

// 写入配置文件后 reloader 必须在防抖窗口过后被调用，
// 监听循环不允许卡在定时器排空上。
func TestWatchConfigReloadsAfterWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(watcherTestConfig), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	reloaded := make(chan *config.Config, 4)
	go WatchConfig(path, func(cfg *config.Config) {
		reloaded <- cfg
	})

	// 给 watcher 一点时间完成注册
	time.Sleep(200 * time.Millisecond)

	updated := strings.Replace(watcherTestConfig, "http://old.example", "http://new.example", 1)
	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.AI.BaseURL != "http://new.example" {
			t.Errorf("reloaded base_url = %q, want http://new.example", cfg.AI.BaseURL)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("reloader never invoked after config write")
	}
}
