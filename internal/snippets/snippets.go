// Package snippets maps a language to its starter source text.
package snippets

import "pairpad/internal/models"

var starters = map[models.Language]string{
	models.LangJavaScript: `// JavaScript starter
function greet(name) {
  return "Hello, " + name;
}

console.log(greet("Candidate"));
`,
	models.LangPython: `# Python starter
def greet(name):
    return f"Hello, {name}"

print(greet("Candidate"))
`,
	models.LangJava: `// Java starter (syntax only)
public class Solution {
    public static void main(String[] args) {
        System.out.println("Hello, Candidate");
    }
}
`,
}

// Default returns the starter snippet for lang, or an empty string when the
// language is not in the catalog.
func Default(lang models.Language) string {
	return starters[lang]
}

// Supported lists the languages clients may select, in menu order.
func Supported() []models.Language {
	return []models.Language{models.LangJavaScript, models.LangPython, models.LangJava}
}
