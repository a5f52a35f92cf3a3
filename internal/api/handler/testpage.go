package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// TestPage serves a minimal HTML page for exercising the /ask endpoint
// from a browser.
func TestPage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(testPageHTML))
}

const testPageHTML = `<!DOCTYPE html>
<html lang="tr">
<head><meta charset="UTF-8"><title>Robocombo GPT Test</title></head>
<body>
  <h2>Robocombo GPT Test (OpenRouter)</h2>
  <form id="chat-form">
    <input type="text" id="message" placeholder="Mesajınızı yazın..." size="50" />
    <button type="submit">Gönder</button>
  </form>
  <p><strong>Yanıt:</strong> <span id="response"></span></p>
  <script>
    document.getElementById("chat-form").addEventListener("submit", async (e) => {
      e.preventDefault();
      const message = document.getElementById("message").value;
      const el = document.getElementById("response");
      el.textContent = "Gönderiliyor...";
      try {
        const r = await fetch("/ask", {
          method: "POST",
          headers: {"Content-Type": "application/json"},
          body: JSON.stringify({ message })
        });
        const text = await r.text();
        el.textContent = text;
      } catch (err) {
        el.textContent = "Hata: " + err.message;
      }
    });
  </script>
</body>
</html>`
