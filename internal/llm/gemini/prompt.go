package gemini

import (
	"encoding/json"
	"fmt"

	"diagnosis-backend/internal/llm"
)

var checkSchema = json.RawMessage(`{
  "type": "OBJECT",
  "properties": {
    "status": {"type": "STRING", "description": "Avaliação da resposta. Valores: \"sufficient\", \"insufficient\", \"partial\"."},
    "feedback": {"type": "STRING", "description": "Justificativa para a avaliação."}
  },
  "required": ["status", "feedback"]
}`)

var reviewSchema = json.RawMessage(`{
  "type": "OBJECT",
  "properties": {
    "status": {"type": "STRING", "description": "Avaliação da resposta. Valores: \"sufficient\", \"insufficient\", \"partial\"."},
    "feedback": {"type": "STRING", "description": "Justificativa concisa para a avaliação do status."},
    "improvementSuggestion": {"type": "STRING", "description": "Recomendação clara e construtiva de como a resposta pode ser melhorada para atingir a conformidade total, com base no requisito da norma."}
  },
  "required": ["status", "feedback", "improvementSuggestion"]
}`)

var importSchema = json.RawMessage(`{
  "type": "OBJECT",
  "properties": {
    "answers": {
      "type": "ARRAY",
      "description": "Uma matriz de perguntas respondidas.",
      "items": {
        "type": "OBJECT",
        "properties": {
          "questionId": {"type": "STRING", "description": "O ID da pergunta que está sendo respondida."},
          "value": {"type": "STRING", "description": "A resposta para a pergunta. Para booleano, \"true\" ou \"false\". Para múltipla escolha, uma lista de strings separadas por vírgulas. Para outros tipos, a resposta em texto."},
          "evidence": {"type": "STRING", "description": "Uma citação direta ou resumo do documento que suporta a resposta."}
        },
        "required": ["questionId", "value", "evidence"]
      }
    }
  },
  "required": ["answers"]
}`)

func buildCheckPrompt(input llm.CheckInput) string {
	return fmt.Sprintf(`Você é um consultor especialista em conformidade IFRS. Sua tarefa é analisar se uma resposta e sua evidência são suficientes para atender a uma pergunta.
- Pergunta: %q
- Resposta: %q
- Evidência: %q
Avalie se a resposta atende à pergunta. Status pode ser 'sufficient', 'insufficient', ou 'partial'. Forneça a avaliação em JSON.`,
		input.QuestionText, input.FormattedValue, input.Evidence)
}

func buildReviewPrompt(input llm.CheckInput) string {
	referenceText := input.ReferenceText
	if referenceText == "" {
		referenceText = "Não especificado."
	}
	evidence := input.Evidence
	if evidence == "" {
		evidence = "Nenhuma evidência fornecida."
	}
	return fmt.Sprintf(`Você é um consultor especialista em conformidade com as normas IFRS S1 e S2. Sua tarefa é analisar criticamente se uma resposta e sua evidência atendem a um requisito específico da norma.

- Requisito da Norma (%s): %q
- Pergunta de Conformidade: %q
- Resposta do Usuário: %q
- Evidência do Usuário: %q

Avalie a resposta com base nos seguintes critérios:
1.  **Status**: A resposta é 'sufficient' (atende completamente), 'partial' (atende parcialmente) ou 'insufficient' (não atende)?
2.  **Feedback**: Justifique sua avaliação de status de forma concisa.
3.  **Sugestão de Melhoria**: Forneça uma recomendação clara e construtiva. Descreva como a resposta poderia ser melhorada para atingir a conformidade total, citando o que está faltando ou o que deveria ser incluído, com base no requisito da norma.

Forneça sua avaliação em formato JSON, seguindo o esquema definido.`,
		input.Reference, referenceText, input.QuestionText, input.FormattedValue, evidence)
}

func buildImportPrompt(input llm.DocumentInput) (string, error) {
	questionsJSON, err := json.Marshal(input.Questions)
	if err != nil {
		return "", fmt.Errorf("marshal questions: %w", err)
	}
	return fmt.Sprintf(`Você é um assistente de IA especialista em analisar relatórios de sustentabilidade corporativa para conformidade com as normas IFRS S1 e IFRS S2. Sua tarefa é revisar meticulosamente o documento fornecido e responder a uma série de perguntas de conformidade.

Instruções:
- Responda em formato JSON válido de acordo com o esquema fornecido. Não inclua nenhum texto introdutório ou formatação markdown.
- Para cada pergunta, encontre a informação mais relevante no documento.
- Se você não conseguir encontrar uma resposta para uma pergunta, omita-a da resposta JSON final.
- Para perguntas do tipo 'boolean', o 'value' deve ser uma string "true" ou "false".
- Para perguntas do tipo 'single_choice', o 'value' deve ser uma das opções fornecidas. Se nenhuma corresponder, escolha a mais apropriada das opções disponíveis.
- Para perguntas do tipo 'multiple_choice', o 'value' deve ser uma string separada por vírgulas das opções selecionadas da lista fornecida.
- Para perguntas do tipo 'text' ou 'text_block', forneça uma resposta concisa mas completa baseada no documento como o 'value'.
- O campo 'evidence' deve conter uma citação direta do documento que apoia a resposta. Se uma cotação direta não for possível, resuma a evidência. Se nenhuma evidência for encontrada, declare isso.

Aqui estão as perguntas:
%s

Documento analisado:
%s`, questionsJSON, input.DocumentText), nil
}
