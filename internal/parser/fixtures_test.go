package parser

const gradesPage = `<html><body>
<table class="decorated stretch">
<tbody>
<tr class="line0">
<td><img src="/images/tree_colapsed.png"/></td>
<td>Matematyka</td>
<td>
<span class="grade-box"><a class="ocena" title="">-</a></span>
<span class="grade-box"><a class="ocena" title="Kategoria: Kartkówka&lt;br&gt;Data: 2019-09-20 (pt.)&lt;br&gt;Nauczyciel: Jan Nowak&lt;br&gt;Licz do średniej: tak&lt;br&gt;Waga: 2&lt;br&gt;Dodał: Jan Nowak&lt;br/&gt;" href="/przegladaj_oceny/szczegoly/1001">4+</a></span>
<span class="grade-box"><a class="ocena" title="Kategoria: Ocena śródroczna&lt;br&gt;Data: 2019-09-25 (śr.)&lt;br&gt;Nauczyciel: Jan Nowak&lt;br&gt;Licz do średniej: nie&lt;br&gt;Dodał: Jan Nowak&lt;br/&gt;" href="/przegladaj_oceny/szczegoly/1002">5</a></span>
</td>
</tr>
<tr class="line1">
<td><img src="/images/tree_colapsed.png"/></td>
<td>Fizyka</td>
<td>
<span class="grade-box"><a class="ocena" title="Kategoria: Aktywność&lt;br&gt;Data: 2019-09-21 (sob.)&lt;br&gt;Nauczyciel: Anna Kot&lt;br&gt;Dodał: Anna Kot&lt;br/&gt;Ocena: Praca na lekcji" href="/przegladaj_oceny/szczegoly/ksztaltujace/77">+</a></span>
</td>
</tr>
</tbody>
</table>
</body></html>`

const calendarPage = `<html><body>
<form method="post"><input type="hidden" name="rok" value="2019"/><input type="hidden" name="miesiac" value="9"/></form>
<table class="kalendarz"><tbody><tr>
<td><div class="kalendarz-dzien"><div class="kalendarz-numer-dnia">3</div>
<table><tbody>
<tr><td style="background-color: #6AB0F0;" title="Nauczyciel: Jan Nowak&lt;br /&gt;Nr lekcji: 3&lt;br /&gt;Rodzaj: sprawdzian&lt;br /&gt;Opis: Funkcje liniowe" onclick="location.href='/terminarz/szczegoly/555'">Matematyka</td></tr>
<tr><td style="background-color: #6AB0F0;" title="Nauczyciel: Jan Nowak&lt;br /&gt;Nr lekcji: 4&lt;br /&gt;Rodzaj: sprawdzian" onclick="location.href='/terminarz/szczegoly/555'">Matematyka</td></tr>
<tr><td style="background-color: #FF7878;" title="Nauczyciel: Anna Kot&lt;br /&gt;Nr lekcji: 5">Fizyka - odwołane zajęcia</td></tr>
</tbody></table></div></td>
<td><div class="kalendarz-dzien"><div class="kalendarz-numer-dnia">15</div>
<table><tbody>
<tr><td style="background-color: #FF7878;" title="Nauczyciel: Piotr Zając&lt;br /&gt;Nr lekcji: 2" onclick="location.href='/terminarz/szczegoly/560'">Zastępstwo z chemii</td></tr>
<tr><td onclick="location.href='/terminarz/szczegoly_wolne/12'">Święto Niepodległości</td></tr>
</tbody></table></div></td>
</tr></tbody></table>
</body></html>`

const announcementsPage = `<html><body>
<table class="decorated big center printable margin-top">
<thead><tr><td colspan="2">Wycieczka do muzeum</td></tr></thead>
<tbody>
<tr class="line0"><th class="medium">Dodał</th><td>Jan Nowak</td></tr>
<tr class="line1"><th class="medium">Data publikacji</th><td>2019-09-20</td></tr>
<tr class="line0"><th class="medium">Treść</th><td>Zbiórka o 8:00.<br/>Proszę zabrać legitymacje &amp; drugie śniadanie.</td></tr>
</tbody>
</table>
<table class="decorated big center printable margin-top">
<thead><tr><td colspan="2">Zebranie z rodzicami</td></tr></thead>
<tbody>
<tr class="line0"><th class="medium">Dodał</th><td>Anna Kot</td></tr>
<tr class="line1"><th class="medium">Data publikacji</th><td>2019-10-01</td></tr>
<tr class="line0"><th class="medium">Treść</th><td>Sala 12, godz. 17:00.</td></tr>
</tbody>
</table>
<table class="decorated"><tbody><tr><td>Brak danych</td></tr></tbody></table>
</body></html>`

const attendancePage = `<html><body>
<table class="center big decorated"><tbody>
<tr class="line0"><td>2019-09-20</td><td>
<p class="box"><a title="Rodzaj: nieobecność&lt;br&gt;Data: 2019-09-20 (pt.)&lt;br&gt;Lekcja: Matematyka&lt;br&gt;Nauczyciel: Jan Nowak&lt;br&gt;Godzina lekcyjna: 3&lt;br&gt;Czy wycieczka: Nie&lt;br&gt;Dodał: Jan Nowak" href="/przegladaj_nb/szczegoly/9001">nb</a></p>
<p class="box"><a title="Rodzaj: obecność&lt;br&gt;Data: 2019-09-20 (pt.)" href="/przegladaj_nb/szczegoly/9002">ob</a></p>
<p class="box"><a title="Rodzaj: spóźnienie&lt;br&gt;Data: 2019-09-20 (pt.)&lt;br&gt;Lekcja: Fizyka&lt;br&gt;Godzina lekcyjna: 4&lt;br&gt;Czy wycieczka: Tak&lt;br&gt;Dodał: Anna Kot" href="/przegladaj_nb/szczegoly/9003">sp</a></p>
</td></tr>
</tbody></table>
</body></html>`
