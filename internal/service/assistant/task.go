package assistant

import (
	"embed"
	"text/template"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

const (
	TaskAudit            = "audit"
	TaskClientToSupplier = "client-to-supplier"
	TaskSupplierToClient = "supplier-to-client"
	TaskManifest         = "manifest"
)

// DraftSentinel 稽核結果中分隔分析與回信草稿的標記
const DraftSentinel = "===DRAFT==="

const (
	SectionText     = "text"
	SectionAnalysis = "analysis"
	SectionDraft    = "draft"
)

// Task 一種桌面助理功能：prompt 模板與輸出後處理
type Task struct {
	Name        string
	Title       string
	Description string
	// 除了 ** 以外要移除的標記
	StripTokens []string
	// 空字串代表整段輸出為單一區塊
	Sentinel string
	Sections []string

	prompt *template.Template
}

type TaskInfo struct {
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Sections    []string `json:"sections"`
}

func (t *Task) Info() TaskInfo {
	return TaskInfo{Name: t.Name, Title: t.Title, Description: t.Description, Sections: t.Sections}
}

// promptData 模板可用欄位
type promptData struct {
	Text     string
	Year     int
	Sentinel string
	Company  string
}

func builtinTasks() []*Task {
	return []*Task{
		{
			Name:        TaskAudit,
			Title:       "Email Inquiry Auditor",
			Description: "Scans a customer email for missing logistics and drafts a professional reply.",
			Sentinel:    DraftSentinel,
			Sections:    []string{SectionAnalysis, SectionDraft},
			prompt:      mustPrompt("audit.tmpl"),
		},
		{
			Name:        TaskClientToSupplier,
			Title:       "Client to Supplier",
			Description: "Turns a client request into a direct supplier inquiry asking for feasibility and cost.",
			Sections:    []string{SectionText},
			prompt:      mustPrompt("client_to_supplier.tmpl"),
		},
		{
			Name:        TaskSupplierToClient,
			Title:       "Supplier to Client",
			Description: "Turns a rough supplier update into a concise client email from the planning team.",
			Sections:    []string{SectionText},
			prompt:      mustPrompt("supplier_to_client.tmpl"),
		},
		{
			Name:        TaskManifest,
			Title:       "Travel Logistics Converter",
			Description: "Converts a messy email into a pick-up / drop-off manifest grouped by date.",
			StripTokens: []string{"##"},
			Sections:    []string{SectionText},
			prompt:      mustPrompt("manifest.tmpl"),
		},
	}
}

func mustPrompt(name string) *template.Template {
	return template.Must(template.New(name).Option("missingkey=error").ParseFS(promptFS, "prompts/"+name))
}
