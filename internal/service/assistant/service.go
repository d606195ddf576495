package assistant

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"
	"travelmail/config"
	cErr "travelmail/internal/pkg/error"
	"travelmail/internal/service/chat"
	"travelmail/internal/service/completion"
	"travelmail/internal/service/models"

	"go.uber.org/zap"
)

const defaultCompany = "OsaBus"

// Completer 送出 prompt 取得結果
type Completer interface {
	Complete(ctx context.Context, req completion.Request) completion.Result
}

type Section struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

type Reply struct {
	Task         string              `json:"task"`
	Text         string              `json:"text"`
	Sections     []Section           `json:"sections"`
	Model        models.Descriptor   `json:"model"`
	ModelVersion string              `json:"modelVersion,omitempty"`
	Usage        *chat.UsageMetadata `json:"usage,omitempty"`
}

type Service struct {
	client   Completer
	tasks    map[string]*Task
	order    []string
	company  string
	maxInput int
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(conf *config.Configuration, client Completer, logger *zap.Logger) *Service {
	s := &Service{
		client:  client,
		tasks:   map[string]*Task{},
		company: defaultCompany,
		now:     time.Now,
		logger:  logger,
	}
	if conf != nil {
		if conf.Assistant.Company != "" {
			s.company = conf.Assistant.Company
		}
		s.maxInput = conf.Assistant.MaxInputChars
	}
	for _, t := range builtinTasks() {
		s.tasks[t.Name] = t
		s.order = append(s.order, t.Name)
	}
	return s
}

// WithClock 替換目前時間來源（模板中的年份）
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Tasks() []TaskInfo {
	out := make([]TaskInfo, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.tasks[name].Info())
	}
	return out
}

func (s *Service) Task(name string) (*Task, bool) {
	t, ok := s.tasks[name]
	return t, ok
}

// Prompt 組出送給模型的完整 prompt
func (s *Service) Prompt(task *Task, text string) (string, error) {
	var buf bytes.Buffer
	err := task.prompt.Execute(&buf, promptData{
		Text:     text,
		Year:     s.now().Year(),
		Sentinel: task.Sentinel,
		Company:  s.company,
	})
	if err != nil {
		return "", fmt.Errorf("render %s prompt: %w", task.Name, err)
	}
	return buf.String(), nil
}

// Run 執行一個助理任務。
// 參數錯誤回傳 *cErr.Error；模型呼叫失敗回傳 *completion.Failure。
func (s *Service) Run(ctx context.Context, name, credential, text string, history []chat.Turn) (*Reply, error) {
	task, ok := s.tasks[name]
	if !ok {
		return nil, cErr.UnknownTask(fmt.Sprintf("unknown task %q", name))
	}
	// 原文照貼進 prompt，去頭尾空白只用於檢查
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, cErr.EmptyInput("text is empty")
	}
	if s.maxInput > 0 && len([]rune(trimmed)) > s.maxInput {
		return nil, cErr.BadRequestBody(fmt.Sprintf("text exceeds %d characters", s.maxInput))
	}

	prompt, err := s.Prompt(task, text)
	if err != nil {
		return nil, cErr.InternalServer(err.Error())
	}

	s.logger.Debug("assistant task",
		zap.String("task", task.Name),
		zap.Int("input_chars", len([]rune(text))),
		zap.Int("history_turns", len(history)),
	)
	res := s.client.Complete(ctx, completion.Request{
		Credential:  credential,
		Prompt:      prompt,
		History:     history,
		Task:        task.Name,
		StripTokens: task.StripTokens,
	})
	if !res.OK() {
		return nil, res.Failure
	}

	return &Reply{
		Task:         task.Name,
		Text:         res.Text,
		Sections:     Split(res.Text, task.Sentinel, task.Sections),
		Model:        res.Model,
		ModelVersion: res.ModelVersion,
		Usage:        res.Usage,
	}, nil
}

// Split 依標記把文字切成兩段；沒有標記或只有一個區塊名稱時整段為一個區塊
func Split(text, sentinel string, names []string) []Section {
	first := SectionText
	if len(names) > 0 {
		first = names[0]
	}
	if sentinel == "" || len(names) < 2 {
		return []Section{{Name: first, Text: strings.TrimSpace(text)}}
	}
	before, after, found := strings.Cut(text, sentinel)
	if !found {
		return []Section{{Name: first, Text: strings.TrimSpace(text)}}
	}
	return []Section{
		{Name: names[0], Text: strings.TrimSpace(before)},
		{Name: names[1], Text: strings.TrimSpace(after)},
	}
}
