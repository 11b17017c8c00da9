package services

// Launch arguments that keep Chromium from advertising itself as automated.
var stealthLaunchArgs = []string{
	"--no-sandbox",
	"--disable-blink-features=AutomationControlled",
	"--disable-extensions",
	"--disable-plugins-discovery",
	"--disable-infobars",
	"--no-first-run",
	"--no-default-browser-check",
}

// stealthInitScript runs in every page before any site script. It papers
// over the fingerprint surfaces bot-detection vendors probe: the webdriver
// flag, the empty plugin list, chrome.runtime, and the permissions API's
// headless tell.
const stealthInitScript = `
Object.defineProperty(navigator, 'webdriver', { get: () => undefined });

Object.defineProperty(navigator, 'plugins', {
    get: () => [1, 2, 3, 4, 5],
});

Object.defineProperty(navigator, 'languages', {
    get: () => ['en-US', 'en'],
});

window.chrome = window.chrome || {};
window.chrome.runtime = window.chrome.runtime || {};

const originalQuery = window.navigator.permissions.query;
window.navigator.permissions.query = (parameters) => (
    parameters.name === 'notifications'
        ? Promise.resolve({ state: Notification.permission })
        : originalQuery(parameters)
);
`
