package summarizer

import (
	"fmt"
	"os"
	"strings"
)

const promptWrapper = `你好，下面的【群日报生成要求】是我的日报 prompt，【群聊记录】是群聊的原始记录。

请你根据群聊记录，按照要求生成一份群日报。只返回 html，不要返回其他内容。

【群聊名称】：
%s

【群日报生成要求】：
%s

【群聊记录】：
%s

谢谢`

// Prompt renders the full prompt around a transcript segment.
type Prompt struct {
	Template string
}

// LoadPrompt reads the report requirements template from path.
func LoadPrompt(path string) (Prompt, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Prompt{}, fmt.Errorf("read prompt template: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return Prompt{}, fmt.Errorf("prompt template %s is empty", path)
	}
	return Prompt{Template: string(data)}, nil
}

// Build returns the prompt for talker with transcript embedded.
func (p Prompt) Build(talker, transcript string) string {
	return fmt.Sprintf(promptWrapper, talker, p.Template, transcript)
}

// Fixed returns the part of the prompt that does not depend on the transcript.
func (p Prompt) Fixed(talker string) string {
	return p.Build(talker, "")
}
