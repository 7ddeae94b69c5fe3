package prompts

// Embedded default templates. The {context} placeholder receives the
// formatted entity block; everything else is the fixed instruction frame
// the response parser depends on.
var templates = map[string]string{
	TemplateStructured:   structuredTemplate,
	TemplateUnstructured: unstructuredTemplate,
}

const structuredTemplate = `Tu es un expert en classification de données sensibles.

Analyse chaque colonne de la table ci-dessous et attribue-lui un niveau de
sensibilité selon l'échelle suivante :
1 = Public, 2 = Restreint, 3 = Confidentiel, 4 = Secret, 5 = Très secret.

Pour chaque colonne, évalue les quatre axes F (financier), C (confidentialité),
R (réglementaire) et O (opérationnel), chacun noté de 1 à 5, et indique-les
dans la justification sous la forme F:x C:x R:x O:x.

{context}

Réponds exactement dans ce format :

Table : <nom de la table>

| Colonne | Type | Sensible ? | Niveau LLM | Justification |
|---------|------|------------|------------|---------------|
| <nom> | <type> | Oui/Non | <niveau> | <justification avec F:x C:x R:x O:x> |

Classification finale : <libellé> (<niveau>)
Justification finale : <synthèse de la classification globale>`

const unstructuredTemplate = `Tu es un expert en classification de données sensibles.

Analyse chaque champ de la collection ci-dessous et attribue-lui un niveau de
sensibilité selon l'échelle suivante :
1 = Public, 2 = Restreint, 3 = Confidentiel, 4 = Secret, 5 = Très secret.

Pour chaque champ, évalue les quatre axes F (financier), C (confidentialité),
R (réglementaire) et O (opérationnel), chacun noté de 1 à 5, et indique-les
dans la justification sous la forme F:x C:x R:x O:x.

{context}

Réponds exactement dans ce format :

Collection : <nom de la collection>

| Champ | Type | Sensible ? | Niveau LLM | Justification |
|-------|------|------------|------------|---------------|
| <nom> | <type> | Oui/Non | <niveau> | <justification avec F:x C:x R:x O:x> |

Classification finale : <libellé> (<niveau>)
Justification finale : <synthèse de la classification globale>`
