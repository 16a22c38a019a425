// Package web holds the HTML components of the order lookup front-end.
// Components are written in .templ files; run `templ generate` after editing.
package web

//go:generate templ generate

const (
	SiteTitle       = "Synqlux Ring Size Hub"
	SiteDescription = "A new way to wellness"
	LogoText        = "SONNET PROJECT"

	desktopLinkBase   = "px-3 py-2 rounded-md text-sm font-medium"
	mobileLinkBase    = "block px-3 py-2 rounded-md text-base font-medium"
	activeLinkClass   = "bg-red-500 text-white"
	inactiveLinkClass = "text-gray-700 hover:bg-gray-100"
)

type NavItem struct {
	Name string
	Href string
}

// NavItems are the navbar destinations in display order.
var NavItems = []NavItem{
	{Name: "Home", Href: "/"},
	{Name: "Orders", Href: "/orders"},
	{Name: "Dashboard", Href: "/dashboard"},
	{Name: "About", Href: "/about"},
}

// LinkClass returns the classes for a nav link; the link matching
// currentPath is highlighted.
func LinkClass(base string, item NavItem, currentPath string) string {
	if item.Href == currentPath {
		return base + " " + activeLinkClass
	}
	return base + " " + inactiveLinkClass
}

// The mobile menu starts closed; the button toggles it and swaps the icons,
// and following a mobile link closes it again.
const navbarScript = `<script>
(function () {
  var button = document.getElementById("mobile-menu-button");
  var menu = document.getElementById("mobile-menu");
  if (!button || !menu) return;
  var icons = button.querySelectorAll("svg");
  function setOpen(open) {
    menu.classList.toggle("hidden", !open);
    menu.classList.toggle("block", open);
    icons[0].classList.toggle("hidden", open);
    icons[0].classList.toggle("block", !open);
    icons[1].classList.toggle("hidden", !open);
    icons[1].classList.toggle("block", open);
    button.setAttribute("aria-expanded", open ? "true" : "false");
  }
  button.addEventListener("click", function () {
    setOpen(menu.classList.contains("hidden"));
  });
  menu.querySelectorAll("a").forEach(function (a) {
    a.addEventListener("click", function () { setOpen(false); });
  });
})();
</script>`
