// ABOUTME: Prompts for the model-backed tag strategies
// ABOUTME: Both ask for a single JSON object so responses can be decoded in JSON mode

package semantic

const entityPrompt = `You are a named entity recognizer for technology news.
Return every named entity in the user's text as JSON:
{"entities": [{"text": "<entity exactly as written>", "class": "<CLASS>"}]}
CLASS is one of ORG, PRODUCT, GPE, LOC, PERSON, WORK_OF_ART, EVENT, DATE, CARDINAL, OTHER.
Do not invent entities. Return {"entities": []} when there are none.`

const phrasePrompt = `You extract key phrases from technology articles.
Return the %d most relevant phrases of one or two words as JSON:
{"phrases": [{"phrase": "<phrase>", "score": <relevance between 0 and 1>}]}
Order phrases by descending score. Use words that appear in the text.`
