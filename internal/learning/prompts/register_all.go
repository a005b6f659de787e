package prompts

// RegisterAll registers every kind. Called once from init.
func RegisterAll() {
	RegisterSpec(Spec{
		Kind:    KindLesson,
		Version: 1,
		System:  `Tu es un professeur de francais experimente.`,
		User: `
Tu es un professeur de francais. Cree une lecon complete sur: {{.Topic}}

Format:
1. EXPLICATION DETAILLEE (200 mots)
2. EXEMPLES (10 exemples varies)
3. EXERCICES (5 exercices avec questions)
4. CORRIGES (solutions detaillees)

Reponds en francais de maniere pedagogique.`,
		Required: []Requirement{{Field: FieldTopic, Message: "Sujet requis"}},
	})

	RegisterSpec(Spec{
		Kind:    KindCorrection,
		Version: 1,
		System:  `Tu es un correcteur de francais.`,
		User: `
Corrige cette phrase et explique les erreurs:

Phrase: {{.Sentence}}

Format:
- Phrase corrigee
- Erreurs identifiees
- Explication grammaticale
- Conseil

Reponds en francais.`,
		Required: []Requirement{{Field: FieldSentence, Message: "Phrase requise"}},
	})

	RegisterSpec(Spec{
		Kind:    KindExerciseSet,
		Version: 1,
		System:  `Tu es un createur d'exercices de francais.`,
		User: `
Cree 5 exercices de niveau {{.Level}} sur: {{.Topic}}

Format pour chaque exercice:
Question + Options (si QCM) + Reponse correcte + Explication

Reponds en francais.`,
		Required: []Requirement{{Field: FieldTopic, Message: "Sujet requis"}},
		Defaults: map[Field]string{FieldLevel: DefaultLevel},
	})

	RegisterSpec(Spec{
		Kind:    KindConjugation,
		Version: 1,
		System:  `Tu es un professeur de grammaire francaise.`,
		User: `
Conjugue le verbe "{{.Verb}}" aux temps suivants:
- PRESENT
- PASSE COMPOSE
- IMPARFAIT
- FUTUR SIMPLE
- CONDITIONNEL PRESENT
- SUBJONCTIF PRESENT

Pour chaque temps, donne toutes les personnes puis une phrase d'exemple.
Signale les irregularites.

Reponds en francais.`,
		Required: []Requirement{{Field: FieldVerb, Message: "Verbe requis"}},
	})

	RegisterSpec(Spec{
		Kind:    KindTestGeneration,
		Version: 1,
		System:  `Tu es un examinateur de francais.`,
		User: `
Cree un test de francais de niveau {{.Level}}.

Format:
1. 10 QUESTIONS (grammaire, vocabulaire, comprehension)
2. OPTIONS pour chaque question (QCM, 4 choix)
3. BAREME (note sur 20)
4. CORRIGE avec explications

Reponds en francais.`,
		Defaults: map[Field]string{FieldLevel: DefaultLevel},
	})

	RegisterSpec(Spec{
		Kind:    KindStory,
		Version: 1,
		System:  `Tu es un conteur qui ecrit pour des apprenants de francais.`,
		User: `
Ecris une courte histoire de niveau {{.Level}} sur le theme: {{.Theme}}

Format:
1. HISTOIRE (300 mots environ)
2. VOCABULAIRE (10 mots avec definitions)
3. QUESTIONS de comprehension (5 questions)
4. REPONSES

Reponds en francais.`,
		Defaults: map[Field]string{
			FieldLevel: DefaultLevel,
			FieldTheme: DefaultTheme,
		},
	})

	RegisterSpec(Spec{
		Kind:    KindAssistantQuery,
		Version: 1,
		System:  `Tu es un assistant pedagogique en francais.`,
		User: `
Question de l'eleve: {{.Question}}

Reponds de maniere pedagogique avec exemples.

Reponds en francais.`,
		Required: []Requirement{{Field: FieldQuestion, Message: "Question requise"}},
	})
}
