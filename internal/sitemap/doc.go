// Package sitemap rewrites the lastmod fields of an XML sitemap.
//
// The document is parsed into a tree with xmlquery. Every url element directly
// under the root element that carries a lastmod child gets that child's text
// replaced with the run's UTC stamp; url entries without lastmod are left as
// they are and nothing is added or removed. The tree is then serialized behind a
// fresh UTF-8 XML declaration and written back over the original file.
//
// Elements are matched by local name, so the standard sitemap namespace
// (xmlns="http://www.sitemaps.org/schemas/sitemap/0.9") and un-namespaced
// documents behave the same. Indentation, CDATA sections, prefixed extension
// elements and entity references inside the root element are written back as
// they were. The serializer expands self-closing tags and escapes quotes in
// text as &#34;, so the first rewrite may differ from the input beyond lastmod;
// after that, repeated runs with the same stamp produce identical bytes.
package sitemap
